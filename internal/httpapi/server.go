// Package httpapi is the thin HTTP decoder over internal/service (spec
// §6.1): it does nothing but validate shapes, call the service, and map
// errors to status codes. Built the way the teacher's internal/httpapi
// builds its mux — chi router, RequestID/RealIP/Recoverer/Compress
// middleware, a security-header middleware, and a Prometheus middleware —
// generalized from LLM inference streaming to request/response predict.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jamsd/internal/jamserr"
	"jamsd/pkg/types"
)

// Service defines the methods required by the HTTP API layer. Implemented
// by *jamsd/internal/service.Service.
type Service interface {
	ListModels() types.ModelsResponse
	Predict(ctx context.Context, modelName, inputJSON string) (string, error)
	AddModel(ctx context.Context, modelName string) error
	UpdateModel(ctx context.Context, modelName string) error
	DeleteModel(ctx context.Context, modelName string) error
	Ready() bool
}

// NewMux builds the full HTTP router for spec §6.1's surface.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	r.Get("/api/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.ListModels()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Post("/api/models", func(w http.ResponseWriter, r *http.Request) {
		var req types.AddModelRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.ModelName) == "" {
			writeJSONError(w, http.StatusBadRequest, "model_name is required")
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.AddModel(ctx, req.ModelName); err != nil {
			logAndMapError(r, "add_model", err)
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	r.Put("/api/models", func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateModelRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.ModelName) == "" {
			writeJSONError(w, http.StatusBadRequest, "model_name is required")
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.UpdateModel(ctx, req.ModelName); err != nil {
			logAndMapError(r, "update_model", err)
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Delete("/api/models", func(w http.ResponseWriter, r *http.Request) {
		modelName := r.URL.Query().Get("model_name")
		if strings.TrimSpace(modelName) == "" {
			writeJSONError(w, http.StatusBadRequest, "model_name query parameter is required")
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.DeleteModel(ctx, modelName); err != nil {
			logAndMapError(r, "delete_model", err)
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/api/predict", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		var req types.PredictRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.ModelName) == "" {
			writeJSONError(w, http.StatusBadRequest, "model_name is required")
			return
		}
		if strings.TrimSpace(req.Input) == "" {
			writeJSONError(w, http.StatusBadRequest, "input is required")
			return
		}

		start := time.Now()
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		out, err := svc.Predict(ctx, req.ModelName, req.Input)
		if err != nil {
			if jamserr.IsDeadline(err) {
				IncrementBackpressure("predict_deadline")
			}
			logAndMapError(r, "predict", err)
			writeServiceError(w, err)
			return
		}
		logPredictSuccess(r, req.ModelName, time.Since(start))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.PredictResponse{Output: out})
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// decodeJSONBody reads and decodes a size-limited JSON body, writing a 400
// and returning false on any failure so handlers can early-return.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func logAndMapError(r *http.Request, op string, err error) {
	if zlog == nil || requestLogLevel(r) < LevelInfo {
		return
	}
	z := zlog.Info().Str("path", r.URL.Path).Str("op", op)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Err(err).Msg("request failed")
}

func logPredictSuccess(r *http.Request, modelName string, dur time.Duration) {
	if zlog == nil || requestLogLevel(r) < LevelInfo {
		return
	}
	z := zlog.Info().Str("path", r.URL.Path).Str("model_name", modelName).Dur("dur", dur)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg("predict ok")
}

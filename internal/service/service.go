// Package service implements the transport-agnostic application logic both
// internal/httpapi and internal/grpcapi decode requests into (spec §6): it
// is the single place that turns a model_name/input pair into a dispatcher
// call, and management requests into loader/registry calls, so neither
// transport duplicates that logic. Generalizes the teacher's pattern of
// handing both transports a single Service interface implemented by one
// concrete type (there, *manager.Manager).
package service

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"jamsd/internal/dispatcher"
	"jamsd/internal/jamserr"
	"jamsd/internal/registry"
	"jamsd/internal/tensor"
	"jamsd/pkg/types"
)

// Service wires the registry, dispatcher, and loader into the operations
// named by spec §6's HTTP and gRPC surfaces.
type Service struct {
	registry   *registry.Registry
	dispatcher *dispatcher.Dispatcher
	loader     *registry.Loader
	ready      atomic.Bool
}

// New constructs a Service. Ready reports false until SetReady(true) is
// called, normally once the startup loader's initial pass completes.
func New(reg *registry.Registry, disp *dispatcher.Dispatcher, loader *registry.Loader) *Service {
	return &Service{registry: reg, dispatcher: disp, loader: loader}
}

// SetReady flips the readiness flag consulted by GET /readyz.
func (s *Service) SetReady(ready bool) { s.ready.Store(ready) }

// Ready reports whether the startup loader has completed its initial pass.
func (s *Service) Ready() bool { return s.ready.Load() }

// ListModels returns the public view of every currently loaded model (spec
// §6 "GET /api/models").
func (s *Service) ListModels() types.ModelsResponse {
	models := s.registry.List()
	out := make([]types.Model, len(models))
	copy(out, models)
	return types.ModelsResponse{Total: len(out), Models: out}
}

// Predict checks that modelName is loaded, decodes the JSON-encoded feature
// columns in inputJSON, runs the prediction on the worker pool, and returns
// the JSON-encoded predictions payload (spec §6 "POST /api/predict").
func (s *Service) Predict(ctx context.Context, modelName, inputJSON string) (string, error) {
	if !s.registry.Has(modelName) {
		return "", jamserr.NotFound(modelName)
	}
	input, err := tensor.ParseModelInput(inputJSON)
	if err != nil {
		return "", err
	}
	out, err := s.dispatcher.Predict(ctx, modelName, input)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(types.PredictionsPayload{Predictions: out})
	if err != nil {
		return "", jamserr.InferenceFailure("service: failed to encode predictions", err)
	}
	return string(payload), nil
}

// AddModel loads a brand-new model named "<framework>-<name>" (spec §6
// "POST /api/models" body, no store suffix) by resolving it to its backing
// store key and fetching it.
func (s *Service) AddModel(ctx context.Context, modelName string) error {
	return s.loader.AddByArtifactKey(ctx, modelName)
}

// UpdateModel re-fetches and atomically swaps the predictor for an already
// loaded model (spec §6 "PUT /api/models").
func (s *Service) UpdateModel(ctx context.Context, modelName string) error {
	return s.loader.UpdateByModelName(ctx, modelName)
}

// DeleteModel evicts a model from the registry (spec §6 "DELETE /api/models").
func (s *Service) DeleteModel(ctx context.Context, modelName string) error {
	return s.registry.Delete(modelName)
}

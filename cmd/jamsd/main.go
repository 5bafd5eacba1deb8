package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"jamsd/internal/config"
	"jamsd/internal/dispatcher"
	"jamsd/internal/grpcapi"
	"jamsd/internal/httpapi"
	"jamsd/internal/registry"
	"jamsd/internal/service"
	"jamsd/internal/store"
	"jamsd/internal/store/azure"
	"jamsd/internal/store/local"
	"jamsd/internal/store/s3"
)

func main() {
	configPath := flag.String("config", "", "Path to a .yaml/.yml/.json/.toml config file")
	protocol := flag.String("protocol", "", "Transport protocol: http or grpc (overrides config)")
	port := flag.Int("port", 0, "Listen port (overrides config)")
	modelStore := flag.String("model-store", "", "Model store: local, aws, azure, or minio (overrides config)")
	modelDir := flag.String("model-dir", "", "Directory containing model artifacts, when model-store=local (overrides config)")
	numWorkers := flag.Int("num-workers", 0, "CPU worker pool size (overrides config)")
	pollInterval := flag.Int("poll-interval", -1, "Store poll interval in seconds, 0 disables polling (overrides config)")
	s3Bucket := flag.String("s3-bucket-name", "", "S3/MinIO bucket name, when model-store=aws or minio (overrides config)")
	azureContainer := flag.String("azure-storage-container-name", "", "Azure Blob container name, when model-store=azure (overrides config)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	applyFlagOverrides(&cfg, *protocol, *port, *modelStore, *modelDir, *numWorkers, *pollInterval, *s3Bucket, *azureContainer)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver, err := buildDriver(rootCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct artifact store driver")
	}

	scratchRoot, err := scratchDir()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve scratch directory")
	}

	reg := registry.New(log)
	disp := dispatcher.New(reg, cfg.NumWorkers, 0, log)
	loader := &registry.Loader{Store: driver, Registry: reg, ScratchRoot: scratchRoot, Log: log}
	svc := service.New(reg, disp, loader)

	log.Info().Str("model_store", cfg.ModelStore).Msg("loading models")
	if err := loader.LoadAll(rootCtx); err != nil {
		log.Fatal().Err(err).Msg("startup load failed")
	}
	svc.SetReady(true)
	log.Info().Int("models", svc.ListModels().Total).Msg("startup load complete")

	var poller *registry.Poller
	if cfg.PollIntervalSeconds > 0 {
		poller = registry.NewPoller(loader, time.Duration(cfg.PollIntervalSeconds)*time.Second)
		poller.Start(rootCtx)
	}

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(rootCtx)

	addr := fmt.Sprintf(":%d", cfg.Port)
	errCh := make(chan error, 1)

	var httpSrv *http.Server
	var grpcSrv *grpc.Server

	switch cfg.Protocol {
	case "http":
		mux := httpapi.NewMux(svc)
		httpSrv = &http.Server{Addr: addr, Handler: mux}
		go func() {
			log.Info().Str("addr", addr).Msg("jamsd listening (http)")
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()
	case "grpc":
		grpcSrv = grpcapi.NewGRPCServer(svc)
		go func() {
			log.Info().Str("addr", addr).Msg("jamsd listening (grpc)")
			if err := grpcapi.Serve(grpcSrv, addr); err != nil {
				errCh <- err
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	if poller != nil {
		poller.Stop()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if httpSrv != nil {
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful http shutdown error")
		}
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
}

func applyFlagOverrides(cfg *config.Config, protocol string, port int, modelStore, modelDir string, numWorkers, pollInterval int, s3Bucket, azureContainer string) {
	if protocol != "" {
		cfg.Protocol = protocol
	}
	if port != 0 {
		cfg.Port = port
	}
	if modelStore != "" {
		cfg.ModelStore = modelStore
	}
	if modelDir != "" {
		cfg.ModelDir = modelDir
	}
	if numWorkers != 0 {
		cfg.NumWorkers = numWorkers
	}
	if pollInterval >= 0 {
		cfg.PollIntervalSeconds = pollInterval
	}
	if s3Bucket != "" {
		cfg.S3BucketName = s3Bucket
	}
	if azureContainer != "" {
		cfg.AzureStorageContainerName = azureContainer
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		cfg := config.Config{
			Protocol:   firstNonEmpty(os.Getenv("JAMSD_PROTOCOL"), "http"),
			Port:       8080,
			ModelStore: firstNonEmpty(os.Getenv("JAMSD_MODEL_STORE"), "local"),
			ModelDir:   firstNonEmpty(os.Getenv("MODEL_STORE_DIR"), "~/jams/models"),
			NumWorkers: 2,
		}
		cfg.ApplyEnv()
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func buildDriver(ctx context.Context, cfg config.Config) (store.Driver, error) {
	switch cfg.ModelStore {
	case "local":
		return local.New(cfg.ModelDir)
	case "aws", "minio":
		return s3.New(ctx, s3.Options{
			Bucket:    cfg.S3BucketName,
			PathStyle: cfg.ModelStore == "minio",
		})
	case "azure":
		return azure.New(azure.Options{Container: cfg.AzureStorageContainerName})
	default:
		return nil, fmt.Errorf("main: unknown model_store %q", cfg.ModelStore)
	}
}

func scratchDir() (string, error) {
	dir, err := os.MkdirTemp("", "jamsd-scratch-*")
	if err != nil {
		return "", fmt.Errorf("main: create scratch dir: %w", err)
	}
	return dir, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

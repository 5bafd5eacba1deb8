package main

import (
	"context"
	"testing"

	"jamsd/internal/config"
)

func TestLoadConfig_DefaultsWithoutConfigPath(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Protocol != "http" {
		t.Fatalf("expected default protocol http, got %q", cfg.Protocol)
	}
	if cfg.ModelStore != "local" {
		t.Fatalf("expected default model_store local, got %q", cfg.ModelStore)
	}
	if cfg.NumWorkers != 2 {
		t.Fatalf("expected default num_workers 2, got %d", cfg.NumWorkers)
	}
}

func TestBuildDriver_RejectsUnknownModelStore(t *testing.T) {
	_, err := buildDriver(context.Background(), config.Config{ModelStore: "bogus"})
	if err == nil {
		t.Fatal("expected error for unknown model_store")
	}
}

func TestApplyFlagOverrides_OverridesOnlySetFlags(t *testing.T) {
	cfg := config.Config{
		Protocol:   "http",
		Port:       8080,
		ModelStore: "local",
		ModelDir:   "~/jams/models",
		NumWorkers: 2,
	}
	applyFlagOverrides(&cfg, "grpc", 9090, "", "", 0, -1, "", "")
	if cfg.Protocol != "grpc" || cfg.Port != 9090 {
		t.Fatalf("expected protocol/port overridden, got %+v", cfg)
	}
	if cfg.ModelStore != "local" || cfg.ModelDir != "~/jams/models" || cfg.NumWorkers != 2 {
		t.Fatalf("expected unset flags to leave config untouched, got %+v", cfg)
	}
}

func TestApplyFlagOverrides_PollIntervalZeroDisablesPolling(t *testing.T) {
	cfg := config.Config{PollIntervalSeconds: 30}
	applyFlagOverrides(&cfg, "", 0, "", "", 0, 0, "", "")
	if cfg.PollIntervalSeconds != 0 {
		t.Fatalf("expected poll interval override to 0, got %d", cfg.PollIntervalSeconds)
	}
}

func TestApplyFlagOverrides_S3AndAzureOverrides(t *testing.T) {
	cfg := config.Config{}
	applyFlagOverrides(&cfg, "", 0, "aws", "", 0, -1, "my-bucket", "")
	if cfg.ModelStore != "aws" || cfg.S3BucketName != "my-bucket" {
		t.Fatalf("expected model_store/s3 bucket overridden, got %+v", cfg)
	}

	cfg2 := config.Config{}
	applyFlagOverrides(&cfg2, "", 0, "azure", "", 0, -1, "", "my-container")
	if cfg2.ModelStore != "azure" || cfg2.AzureStorageContainerName != "my-container" {
		t.Fatalf("expected model_store/azure container overridden, got %+v", cfg2)
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jamsd/internal/config"
	"jamsd/internal/registry"
	"jamsd/internal/store"
	"jamsd/internal/store/azure"
	"jamsd/internal/store/local"
	"jamsd/internal/store/s3"
)

// newPollNowCmd builds "jamsctl poll-now", which performs one manual
// reconciliation against the configured store without requiring a running
// jamsd process (spec.md §5.7 / original_source/jams/src/cli.rs's explicit
// CLI surface for server operations).
func newPollNowCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "poll-now",
		Short: "Trigger one manual store reconciliation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPollNow(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "f", "", "Path to a .yaml/.yml/.json/.toml config file")
	return cmd
}

func runPollNow(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("jamsctl: load config: %w", err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("jamsctl: invalid config: %w", err)
	}

	driver, err := buildDriver(ctx, cfg)
	if err != nil {
		return fmt.Errorf("jamsctl: build store driver: %w", err)
	}
	scratch, err := os.MkdirTemp("", "jamsctl-scratch-*")
	if err != nil {
		return fmt.Errorf("jamsctl: create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	reg := registry.New(log)
	loader := &registry.Loader{Store: driver, Registry: reg, ScratchRoot: scratch, Log: log}

	if err := loader.Reconcile(ctx); err != nil {
		return fmt.Errorf("jamsctl: reconcile: %w", err)
	}
	fmt.Printf("poll-now: reconciled, %d models now loaded\n", len(reg.List()))
	return nil
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
		return nil, fmt.Errorf("jamsctl: unknown model_store %q", cfg.ModelStore)
	}
}

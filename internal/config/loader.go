// Package config loads the TOML/YAML/JSON configuration file described in
// spec §6, following the teacher's extension-dispatch Load function.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for jamsd. Zero values mean "unspecified"
// and are filled in from environment variables, then CLI flags, in main.
type Config struct {
	Protocol                  string `json:"protocol" yaml:"protocol" toml:"protocol"`
	Port                      int    `json:"port" yaml:"port" toml:"port"`
	ModelStore                string `json:"model_store" yaml:"model_store" toml:"model_store"`
	ModelDir                  string `json:"model_dir" yaml:"model_dir" toml:"model_dir"`
	S3BucketName              string `json:"s3_bucket_name" yaml:"s3_bucket_name" toml:"s3_bucket_name"`
	AzureStorageContainerName string `json:"azure_storage_container_name" yaml:"azure_storage_container_name" toml:"azure_storage_container_name"`
	PollIntervalSeconds       int    `json:"poll_interval" yaml:"poll_interval" toml:"poll_interval"`
	NumWorkers                int    `json:"num_workers" yaml:"num_workers" toml:"num_workers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg fields from the environment variables named in
// spec §6, taking precedence over file values but not CLI flags.
func (cfg *Config) ApplyEnv() {
	if v := os.Getenv("MODEL_STORE_DIR"); v != "" {
		cfg.ModelDir = v
	}
	if v := os.Getenv("S3_BUCKET_NAME"); v != "" {
		cfg.S3BucketName = v
	}
	if v := os.Getenv("AZURE_STORAGE_CONTAINER_NAME"); v != "" {
		cfg.AzureStorageContainerName = v
	}
}

// Validate checks the closed enumerations and ranges from spec §6.
func (cfg Config) Validate() error {
	switch cfg.Protocol {
	case "http", "grpc":
	default:
		return fmt.Errorf("config: protocol must be http or grpc, got %q", cfg.Protocol)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("config: port must be in 1..65535, got %d", cfg.Port)
	}
	switch cfg.ModelStore {
	case "local", "aws", "azure", "minio":
	default:
		return fmt.Errorf("config: model_store must be one of local/aws/azure/minio, got %q", cfg.ModelStore)
	}
	if cfg.NumWorkers < 1 {
		return fmt.Errorf("config: num_workers must be positive, got %d", cfg.NumWorkers)
	}
	if cfg.PollIntervalSeconds < 0 {
		return fmt.Errorf("config: poll_interval must not be negative, got %d", cfg.PollIntervalSeconds)
	}
	return nil
}

// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like SITEGEN_DATABASE_POSTGRES_HOST
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when not present
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "sitegen-workers"
	}
	if cfg.Camunda.BrokerAddress == "" {
		cfg.Camunda.BrokerAddress = "localhost:26500"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Catalog.Table == "" {
		cfg.Catalog.Table = "site_templates"
	}
	if cfg.Catalog.FilePath == "" {
		cfg.Catalog.FilePath = "configs/templates.yaml"
	}
	if cfg.Catalog.CacheTTLSecs == 0 {
		cfg.Catalog.CacheTTLSecs = 600
	}
	if cfg.Engine.Weights.Sum() == 0 {
		cfg.Engine.Weights = CategoryWeights{
			BasicInfo:       20,
			Content:         20,
			Visuals:         20,
			Trust:           20,
			Differentiation: 20,
		}
	}
	if cfg.Engine.ScoreThreshold == 0 {
		cfg.Engine.ScoreThreshold = 50
	}
	if cfg.Engine.ConfidenceThreshold == 0 {
		cfg.Engine.ConfidenceThreshold = 0.7
	}
	if cfg.Engine.SuggestionThreshold == 0 {
		cfg.Engine.SuggestionThreshold = 15
	}
	if cfg.Engine.NearMissCount == 0 {
		cfg.Engine.NearMissCount = 3
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9091
	}
}

func validateConfig(cfg *Config) error {
	if sum := cfg.Engine.Weights.Sum(); sum != 100 {
		return fmt.Errorf("engine category weights must sum to 100, got %d", sum)
	}
	if cfg.Engine.ConfidenceThreshold < 0 || cfg.Engine.ConfidenceThreshold > 1 {
		return fmt.Errorf("engine confidence threshold must be in [0,1], got %f", cfg.Engine.ConfidenceThreshold)
	}
	if cfg.Engine.ScoreThreshold < 0 || cfg.Engine.ScoreThreshold > 100 {
		return fmt.Errorf("engine score threshold must be in [0,100], got %d", cfg.Engine.ScoreThreshold)
	}
	return nil
}

// DefaultEngine returns the engine tunables with all defaults applied,
// for callers that run the engine without a config file.
func DefaultEngine() EngineConfig {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg.Engine
}

// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Catalog  CatalogConfig           `mapstructure:"catalog"`
	Engine   EngineConfig            `mapstructure:"engine"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CatalogConfig locates the template catalog. When the postgres table is not
// reachable the workers fall back to the YAML file.
type CatalogConfig struct {
	Table        string `mapstructure:"table"`
	FilePath     string `mapstructure:"file_path"`
	CacheTTLSecs int    `mapstructure:"cache_ttl_secs"`
}

// EngineConfig holds the decision-engine tunables. Category weights must sum
// to 100; each weight is that category's maximum score allotment.
type EngineConfig struct {
	Weights             CategoryWeights `mapstructure:"weights"`
	ScoreThreshold      int             `mapstructure:"score_threshold"`
	ConfidenceThreshold float64         `mapstructure:"confidence_threshold"`
	SuggestionThreshold int             `mapstructure:"suggestion_threshold"`
	NearMissCount       int             `mapstructure:"near_miss_count"`
}

type CategoryWeights struct {
	BasicInfo       int `mapstructure:"basic_info"`
	Content         int `mapstructure:"content"`
	Visuals         int `mapstructure:"visuals"`
	Trust           int `mapstructure:"trust"`
	Differentiation int `mapstructure:"differentiation"`
}

// Sum returns the total of all category weights.
func (w CategoryWeights) Sum() int {
	return w.BasicInfo + w.Content + w.Visuals + w.Trust + w.Differentiation
}

// ByCategory returns the weight for a named quality category.
func (w CategoryWeights) ByCategory(name string) int {
	switch name {
	case "basic_info":
		return w.BasicInfo
	case "content":
		return w.Content
	case "visuals":
		return w.Visuals
	case "trust":
		return w.Trust
	case "differentiation":
		return w.Differentiation
	default:
		return 0
	}
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/retaildex/internal/domain/prompt"
)

// Source and driver names.
const (
	DriverCSV        = "csv"
	DriverWarehouse  = "warehouse"
	DriverDatabricks = "databricks"
	DriverRedis      = "redis"
	DriverKafka      = "kafka"
	DriverNone       = "none"
)

// Config holds the retaildex API configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Auth         AuthConfig         `yaml:"auth"`
	Logging      LoggingConfig      `yaml:"logging"`
	Redis        RedisConfig        `yaml:"redis"`
	Warehouse    WarehouseConfig    `yaml:"warehouse"`
	Data         DataConfig         `yaml:"data"`
	VectorSearch VectorSearchConfig `yaml:"vector_search"`
	Embedding    EmbeddingConfig    `yaml:"embedding"`
	Search       SearchConfig       `yaml:"search"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	LLM          LLMConfig          `yaml:"llm"`
	Events       EventsConfig       `yaml:"events"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"` // chat streams are bounded by this too
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// RedisConfig holds the Redis connection. Empty addrs disables Redis-backed features.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether Redis is configured.
func (r RedisConfig) Enabled() bool { return len(r.Addrs) > 0 }

// WarehouseConfig holds the SQL warehouse connection.
type WarehouseConfig struct {
	DSN                string `yaml:"dsn"`
	ProductsTable      string `yaml:"products_table"`
	ForecastsTable     string `yaml:"forecasts_table"`
	MaxRows            int    `yaml:"max_rows"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
}

// DataConfig selects where products and forecasts come from.
type DataConfig struct {
	Driver       string `yaml:"driver"` // csv, warehouse (default: csv)
	ProductsCSV  string `yaml:"products_csv"`
	ForecastsCSV string `yaml:"forecasts_csv"`
}

// VectorSearchConfig selects the vector ranker.
type VectorSearchConfig struct {
	Driver     string                 `yaml:"driver"` // databricks, redis, none (default: none)
	TimeoutMs  int                    `yaml:"timeout_ms"`
	Databricks DatabricksVectorConfig `yaml:"databricks"`
	Redis      RedisVectorConfig      `yaml:"redis"`
}

// DatabricksVectorConfig holds the Databricks vector search endpoint.
type DatabricksVectorConfig struct {
	Host     string `yaml:"host"`
	Index    string `yaml:"index"`
	Token    string `yaml:"token"`
	IDColumn string `yaml:"id_column"`
}

// RedisVectorConfig points at an existing FT vector index.
type RedisVectorConfig struct {
	IndexName   string `yaml:"index_name"`
	VectorField string `yaml:"vector_field"`
	IDField     string `yaml:"id_field"`
	KeyPrefix   string `yaml:"key_prefix"`
	// Filters restricts KNN candidates to exact TAG values, e.g. {retailer: acme}.
	Filters map[string]string `yaml:"filters"`
}

// EmbeddingConfig holds the query embedding provider used by the redis vector driver.
type EmbeddingConfig struct {
	Provider         string `yaml:"provider"`
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
	CacheSize        int    `yaml:"cache_size"`
	CacheTTLHours    int    `yaml:"cache_ttl_hours"`
}

// SearchConfig holds hybrid ranking settings.
type SearchConfig struct {
	RRFConstant       float64 `yaml:"rrf_constant"`
	DefaultNumResults int     `yaml:"default_num_results"`
	MaxNumResults     int     `yaml:"max_num_results"`
}

// CatalogConfig holds corpus refresh settings.
type CatalogConfig struct {
	RefreshIntervalSec int  `yaml:"refresh_interval_sec"` // 0 loads once
	Stemming           bool `yaml:"stemming"`
	ReloadTimeoutSec   int  `yaml:"reload_timeout_sec"` // 0 uses the default`
}

// LLMConfig holds the chat completion endpoint. Empty base_url disables copy and chat.
type LLMConfig struct {
	APIKey       string         `yaml:"api_key"`
	BaseURL      string         `yaml:"base_url"`
	MaxTokens    int            `yaml:"max_tokens"`
	Temperature  float32        `yaml:"temperature"`
	Models       []prompt.Model `yaml:"models"`
	CopyPrompt   string         `yaml:"copy_prompt"`
	CopyTTLHours int            `yaml:"copy_ttl_hours"` // 0 keeps saved copy forever
}

// Enabled reports whether an LLM endpoint is configured.
func (l LLMConfig) Enabled() bool { return l.BaseURL != "" }

// EventsConfig holds the search analytics sink.
type EventsConfig struct {
	Driver  string   `yaml:"driver"` // kafka, none (default: none)
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Async   bool     `yaml:"async"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env variables, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Data.Driver == "" {
		c.Data.Driver = DriverCSV
	}
	if c.Warehouse.ProductsTable == "" {
		c.Warehouse.ProductsTable = "retail_products"
	}
	if c.Warehouse.ForecastsTable == "" {
		c.Warehouse.ForecastsTable = "retail_forecasts"
	}
	if c.Warehouse.MaxRows <= 0 {
		c.Warehouse.MaxRows = 10000
	}
	if c.Warehouse.MaxOpenConns <= 0 {
		c.Warehouse.MaxOpenConns = 10
	}
	if c.Warehouse.MaxIdleConns <= 0 {
		c.Warehouse.MaxIdleConns = 5
	}
	if c.Warehouse.ConnMaxLifetimeSec <= 0 {
		c.Warehouse.ConnMaxLifetimeSec = 300
	}
	if c.VectorSearch.Driver == "" {
		c.VectorSearch.Driver = DriverNone
	}
	if c.VectorSearch.TimeoutMs <= 0 {
		c.VectorSearch.TimeoutMs = 3000
	}
	if c.VectorSearch.Redis.VectorField == "" {
		c.VectorSearch.Redis.VectorField = "embedding"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.CacheSize <= 0 {
		c.Embedding.CacheSize = 1000
	}
	if c.Embedding.CacheTTLHours <= 0 {
		c.Embedding.CacheTTLHours = 24 * 7
	}
	if c.Search.RRFConstant <= 0 {
		c.Search.RRFConstant = 60
	}
	if c.Search.DefaultNumResults <= 0 {
		c.Search.DefaultNumResults = 10
	}
	if c.Search.MaxNumResults <= 0 {
		c.Search.MaxNumResults = 100
	}
	if len(c.LLM.Models) == 0 {
		c.LLM.Models = prompt.DefaultModels()
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 512
	}
	if c.Events.Driver == "" {
		c.Events.Driver = DriverNone
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "retaildex.search"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Data.Driver {
	case DriverCSV:
		if c.Data.ProductsCSV == "" {
			return errors.New("data.products_csv is required for the csv driver")
		}
	case DriverWarehouse:
		if c.Warehouse.DSN == "" {
			return errors.New("warehouse.dsn is required for the warehouse driver")
		}
	default:
		return fmt.Errorf("data.driver must be %q or %q, got %q", DriverCSV, DriverWarehouse, c.Data.Driver)
	}

	switch c.VectorSearch.Driver {
	case DriverNone:
	case DriverDatabricks:
		if c.VectorSearch.Databricks.Host == "" || c.VectorSearch.Databricks.Index == "" {
			return errors.New("vector_search.databricks.host and index are required")
		}
	case DriverRedis:
		if !c.Redis.Enabled() {
			return errors.New("redis.addrs is required for the redis vector driver")
		}
		if c.VectorSearch.Redis.IndexName == "" {
			return errors.New("vector_search.redis.index_name is required")
		}
		if c.Embedding.Model == "" {
			return errors.New("embedding.model is required for the redis vector driver")
		}
	default:
		return fmt.Errorf("vector_search.driver must be databricks, redis or none, got %q", c.VectorSearch.Driver)
	}

	if c.Search.MaxNumResults < c.Search.DefaultNumResults {
		return fmt.Errorf("search.max_num_results (%d) must be >= default_num_results (%d)",
			c.Search.MaxNumResults, c.Search.DefaultNumResults)
	}

	for i, m := range c.LLM.Models {
		if m.Value == "" {
			return fmt.Errorf("llm.models[%d].value is required", i)
		}
	}
	if _, err := prompt.New(c.LLM.CopyPrompt); err != nil {
		return fmt.Errorf("llm.copy_prompt: %w", err)
	}

	switch c.Events.Driver {
	case DriverNone:
	case DriverKafka:
		if len(c.Events.Brokers) == 0 {
			return errors.New("events.brokers is required for the kafka driver")
		}
	default:
		return fmt.Errorf("events.driver must be kafka or none, got %q", c.Events.Driver)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

package config

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/retaildex/internal/domain/prompt"
)

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Data: DataConfig{ProductsCSV: "data/products.csv"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"csv without path", func(c *Config) { c.Data.ProductsCSV = "" }, "data.products_csv"},
		{"warehouse without dsn", func(c *Config) { c.Data.Driver = DriverWarehouse }, "warehouse.dsn"},
		{"unknown data driver", func(c *Config) { c.Data.Driver = "s3" }, "data.driver"},
		{"databricks without host", func(c *Config) {
			c.VectorSearch.Driver = DriverDatabricks
			c.VectorSearch.Databricks.Index = "idx"
		}, "vector_search.databricks"},
		{"redis vector without redis", func(c *Config) {
			c.VectorSearch.Driver = DriverRedis
			c.VectorSearch.Redis.IndexName = "idx:products"
			c.Embedding.Model = "m"
		}, "redis.addrs"},
		{"redis vector without index", func(c *Config) {
			c.VectorSearch.Driver = DriverRedis
			c.Redis.Addrs = []string{"localhost:6379"}
			c.Embedding.Model = "m"
		}, "index_name"},
		{"redis vector without model", func(c *Config) {
			c.VectorSearch.Driver = DriverRedis
			c.Redis.Addrs = []string{"localhost:6379"}
			c.VectorSearch.Redis.IndexName = "idx:products"
		}, "embedding.model"},
		{"unknown vector driver", func(c *Config) { c.VectorSearch.Driver = "pinecone" }, "vector_search.driver"},
		{"max below default", func(c *Config) { c.Search.MaxNumResults = 5 }, "max_num_results"},
		{"model without value", func(c *Config) { c.LLM.Models = []prompt.Model{{Label: "x"}} }, "llm.models[0]"},
		{"oversized prompt", func(c *Config) {
			c.LLM.CopyPrompt = strings.Repeat("x", prompt.MaxTemplateLength+1)
		}, "llm.copy_prompt"},
		{"kafka without brokers", func(c *Config) { c.Events.Driver = DriverKafka }, "events.brokers"},
		{"unknown events driver", func(c *Config) { c.Events.Driver = "nats" }, "events.driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Data.Driver != DriverCSV {
		t.Errorf("expected data driver csv, got %q", cfg.Data.Driver)
	}
	if cfg.VectorSearch.Driver != DriverNone {
		t.Errorf("expected vector driver none, got %q", cfg.VectorSearch.Driver)
	}
	if cfg.VectorSearch.TimeoutMs != 3000 {
		t.Errorf("expected TimeoutMs=3000, got %d", cfg.VectorSearch.TimeoutMs)
	}
	if cfg.Search.RRFConstant != 60 {
		t.Errorf("expected RRFConstant=60, got %f", cfg.Search.RRFConstant)
	}
	if cfg.Search.DefaultNumResults != 10 || cfg.Search.MaxNumResults != 100 {
		t.Errorf("unexpected num results defaults: %+v", cfg.Search)
	}
	if len(cfg.LLM.Models) != len(prompt.DefaultModels()) {
		t.Errorf("expected default models, got %+v", cfg.LLM.Models)
	}
	if cfg.Events.Topic != "retaildex.search" {
		t.Errorf("expected default topic, got %q", cfg.Events.Topic)
	}
	if cfg.Warehouse.ProductsTable != "retail_products" {
		t.Errorf("expected default products table, got %q", cfg.Warehouse.ProductsTable)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:         HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Search:       SearchConfig{RRFConstant: 20, DefaultNumResults: 5, MaxNumResults: 50},
		VectorSearch: VectorSearchConfig{Driver: DriverDatabricks, TimeoutMs: 500},
		LLM:          LLMConfig{Models: []prompt.Model{{Label: "A", Value: "a"}}},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Search.RRFConstant != 20 || cfg.Search.MaxNumResults != 50 {
		t.Errorf("search overridden: %+v", cfg.Search)
	}
	if cfg.VectorSearch.Driver != DriverDatabricks || cfg.VectorSearch.TimeoutMs != 500 {
		t.Errorf("vector search overridden: %+v", cfg.VectorSearch)
	}
	if len(cfg.LLM.Models) != 1 {
		t.Errorf("models overridden: %+v", cfg.LLM.Models)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("RETAILDEX_TEST_TOKEN", "secret")

	tests := []struct {
		in   string
		want string
	}{
		{"token: ${RETAILDEX_TEST_TOKEN}", "token: secret"},
		{"token: ${RETAILDEX_TEST_TOKEN:-fallback}", "token: secret"},
		{"host: ${RETAILDEX_TEST_UNSET:-localhost}", "host: localhost"},
		{"host: ${RETAILDEX_TEST_UNSET}", "host: "},
		{"plain: value", "plain: value"},
	}
	for _, tt := range tests {
		if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Setenv("RETAILDEX_TEST_DBX_TOKEN", "dapi-123")

	data := []byte(`
http:
  port: 9090
data:
  driver: csv
  products_csv: data/products.csv
  forecasts_csv: data/forecasts.csv
vector_search:
  driver: databricks
  databricks:
    host: adb-1.azuredatabricks.net
    index: retail.products_idx
    token: ${RETAILDEX_TEST_DBX_TOKEN}
llm:
  base_url: https://adb-1.azuredatabricks.net/serving-endpoints
  models:
    - label: DBRX
      value: databricks-dbrx-instruct
events:
  driver: kafka
  brokers: ["localhost:9092"]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.VectorSearch.Databricks.Token != "dapi-123" {
		t.Errorf("token = %q", cfg.VectorSearch.Databricks.Token)
	}
	if !cfg.LLM.Enabled() || cfg.LLM.Models[0].Value != "databricks-dbrx-instruct" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled without addrs")
	}
	if cfg.Events.Topic != "retaildex.search" {
		t.Errorf("topic = %q", cfg.Events.Topic)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error for missing products_csv")
	}
}

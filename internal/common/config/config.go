// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig                `mapstructure:"app"`
	Camunda       CamundaConfig            `mapstructure:"camunda"`
	Completion    CompletionConfig         `mapstructure:"completion"`
	Features      map[string]FeatureConfig `mapstructure:"features"`
	Redis         RedisConfig              `mapstructure:"redis"`
	Workers       map[string]WorkerConfig  `mapstructure:"workers"`
	Logging       LoggingConfig            `mapstructure:"logging"`
	Observability ObservabilityConfig      `mapstructure:"observability"`
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

// CompletionConfig describes the hosted completion service.
type CompletionConfig struct {
	BaseURL       string   `mapstructure:"base_url"`
	Path          string   `mapstructure:"path"`
	APIKey        string   `mapstructure:"api_key"`
	DefaultModel  string   `mapstructure:"default_model"`
	RepairModel   string   `mapstructure:"repair_model"`
	AllowedModels []string `mapstructure:"allowed_models"`
	MaxTokens     int      `mapstructure:"max_tokens"`
	Timeout       int      `mapstructure:"timeout"` // milliseconds, 0 leaves it to the transport
}

// Endpoint joins BaseURL and Path.
func (c CompletionConfig) Endpoint() string {
	if c.Path == "" {
		return c.BaseURL
	}
	if len(c.BaseURL) > 0 && c.BaseURL[len(c.BaseURL)-1] == '/' && c.Path[0] == '/' {
		return c.BaseURL + c.Path[1:]
	}
	return c.BaseURL + c.Path
}

// FeatureConfig tunes the primary completion request of one orchestrator.
type FeatureConfig struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	WebSearch   bool    `mapstructure:"web_search"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`    // milliseconds
	ResultTTL     int  `mapstructure:"result_ttl"` // seconds a completed output is kept for redelivered jobs
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig holds metrics and tracing settings.
type ObservabilityConfig struct {
	MetricsAddress string `mapstructure:"metrics_address"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}

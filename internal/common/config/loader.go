// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Feature names, shared with the pipeline and the worker task types.
const (
	FeatureQuiz             = "generate-quiz"
	FeatureFlashcards       = "generate-flashcards"
	FeatureEssayGrade       = "grade-essay"
	FeatureCitation         = "generate-citation"
	FeaturePracticeProblems = "generate-practice-problems"
)

// Features lists every orchestrator in registration order.
var Features = []string{
	FeatureQuiz,
	FeatureFlashcards,
	FeatureEssayGrade,
	FeatureCitation,
	FeaturePracticeProblems,
}

var defaultFeatureTemperature = map[string]float64{
	FeatureQuiz:             0.7,
	FeatureFlashcards:       0.6,
	FeatureEssayGrade:       0.3,
	FeatureCitation:         0.2,
	FeaturePracticeProblems: 0.7,
}

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env", "../../../.env"}
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

// Find project root by looking for go.mod
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
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets that are usually provided only through the environment.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Completion.APIKey == "" {
		if val := os.Getenv("COMPLETION_API_KEY"); val != "" {
			cfg.Completion.APIKey = val
		}
	}
	if cfg.Completion.BaseURL == "" {
		if val := os.Getenv("COMPLETION_BASE_URL"); val != "" {
			cfg.Completion.BaseURL = val
		}
	}
	if cfg.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "studyai-workers"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Completion.Path == "" {
		cfg.Completion.Path = "/api/ai/complete"
	}
	if cfg.Completion.DefaultModel == "" {
		cfg.Completion.DefaultModel = "gpt-4o-mini"
	}
	if cfg.Completion.RepairModel == "" {
		cfg.Completion.RepairModel = "gpt-4.1-mini"
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = 2048
	}

	if cfg.Features == nil {
		cfg.Features = map[string]FeatureConfig{}
	}
	for _, name := range Features {
		f, exists := cfg.Features[name]
		if !exists {
			f.Temperature = defaultFeatureTemperature[name]
		}
		if f.Model == "" {
			f.Model = cfg.Completion.DefaultModel
		}
		if f.MaxTokens == 0 {
			f.MaxTokens = cfg.Completion.MaxTokens
		}
		cfg.Features[name] = f
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Workers == nil {
		cfg.Workers = map[string]WorkerConfig{}
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 120000
		}
		if worker.ResultTTL == 0 {
			worker.ResultTTL = 600
		}
		cfg.Workers[key] = worker
	}

	if cfg.Observability.MetricsAddress == "" {
		cfg.Observability.MetricsAddress = ":8080"
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	if cfg.Completion.BaseURL == "" {
		return fmt.Errorf("completion.base_url is required")
	}
	if cfg.Completion.RepairModel == cfg.Completion.DefaultModel {
		return fmt.Errorf("completion.repair_model must differ from completion.default_model")
	}
	if len(cfg.Completion.AllowedModels) > 0 {
		allowed := map[string]bool{}
		for _, m := range cfg.Completion.AllowedModels {
			allowed[m] = true
		}
		if !allowed[cfg.Completion.RepairModel] {
			return fmt.Errorf("completion.repair_model %q is not in completion.allowed_models", cfg.Completion.RepairModel)
		}
		for name, f := range cfg.Features {
			if !allowed[f.Model] {
				return fmt.Errorf("features.%s.model %q is not in completion.allowed_models", name, f.Model)
			}
		}
	}
	for name, f := range cfg.Features {
		if f.Model == cfg.Completion.RepairModel {
			return fmt.Errorf("features.%s.model must differ from completion.repair_model", name)
		}
		if f.Temperature < 0 || f.Temperature > 2 {
			return fmt.Errorf("features.%s.temperature must be within [0, 2]", name)
		}
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       120000,
		ResultTTL:     600,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}

// internal/workers/study-ai/generate-citation/config.go
package generatecitation

import (
	"time"

	"studyai-workers/internal/common/config"
)

type Config struct {
	Timeout   time.Duration
	ResultTTL time.Duration
}

func NewConfig(wcfg config.WorkerConfig) *Config {
	return &Config{
		Timeout:   config.GetDuration(wcfg.Timeout),
		ResultTTL: time.Duration(wcfg.ResultTTL) * time.Second,
	}
}

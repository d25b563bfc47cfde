package camunda

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"studyai-workers/internal/common/config"
	"studyai-workers/internal/common/logger"
)

func TestWorkers_StartDisabledOpensNothing(t *testing.T) {
	w := NewWorkers(nil, logger.NewTestLogger(t))

	started := w.Start("generate-quiz", config.WorkerConfig{Enabled: false}, nil)
	assert.False(t, started)
	assert.Empty(t, w.Running())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, IsRetryable(errors.New("context deadline exceeded")))
	assert.False(t, IsRetryable(errors.New("permission denied")))
	assert.False(t, IsRetryable(nil))
}

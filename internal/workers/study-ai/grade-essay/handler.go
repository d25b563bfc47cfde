// internal/workers/study-ai/grade-essay/handler.go
package gradeessay

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"studyai-workers/internal/common/camunda"
	"studyai-workers/internal/common/config"
	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/common/jobcache"
	"studyai-workers/internal/common/logger"
	"studyai-workers/internal/common/metrics"
	"studyai-workers/internal/common/pipeline"
	"studyai-workers/internal/common/validation"
	"studyai-workers/internal/models"
)

const (
	TaskType = config.FeatureEssayGrade
)

// Generator is the part of the pipeline this worker needs.
type Generator interface {
	GradeEssay(ctx context.Context, r pipeline.EssayRequest) (models.EssayGrade, error)
}

type Handler struct {
	config    *Config
	generator Generator
	cache     *jobcache.Cache
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, generator Generator, cache *jobcache.Cache, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		generator: generator,
		cache:     cache,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.process(ctx, job)

	cmdCtx, cmdCancel := camunda.CommandContext()
	defer cmdCancel()

	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.CodeOf(err))).Inc()
		h.errors.HandleJobError(cmdCtx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(cmdCtx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// process returns the cached output of a redelivered job, or runs Execute and caches it.
func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	var cached Output
	hit, err := h.cache.Load(ctx, TaskType, job.Key, &cached)
	if err != nil {
		h.logger.Warn("result cache unavailable", map[string]interface{}{"jobKey": job.Key, "error": err})
	} else if hit {
		metrics.WorkerCacheHits.WithLabelValues(TaskType).Inc()
		h.logger.Info("completing from cached result", map[string]interface{}{"jobKey": job.Key})
		return &cached, nil
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err))
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Store(ctx, TaskType, job.Key, output, h.config.ResultTTL); err != nil {
		h.logger.Warn("failed to cache result", map[string]interface{}{"jobKey": job.Key, "error": err})
	}
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	grade, err := h.generator.GradeEssay(ctx, pipeline.EssayRequest{
		Essay:      input.Essay,
		Assignment: input.Assignment,
		Rubric:     input.Rubric,
		GradeLevel: input.GradeLevel,
		OutOf:      input.OutOf,
	})
	if err != nil {
		return nil, err
	}
	if err := validation.Check(models.ResultKindEssayGrade, grade); err != nil {
		return nil, err
	}

	pct := percentage(grade.OverallScore, grade.OutOf)
	h.logger.Info("essay graded", map[string]interface{}{
		"score":      grade.OverallScore,
		"outOf":      grade.OutOf,
		"criteria":   len(grade.Criteria),
		"percentage": pct,
	})

	return &Output{
		Grade:      grade,
		Percentage: pct,
	}, nil
}

func percentage(score, outOf float64) float64 {
	if outOf <= 0 {
		return 0
	}
	return math.Round(score/outOf*1000) / 10
}

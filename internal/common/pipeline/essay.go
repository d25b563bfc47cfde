package pipeline

import (
	"context"
	"strings"

	"studyai-workers/internal/common/config"
	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/common/normalize"
	"studyai-workers/internal/models"
)

type EssayRequest struct {
	Essay      string
	Assignment string
	Rubric     string
	GradeLevel string
	OutOf      float64
}

func (p *Pipeline) GradeEssay(ctx context.Context, r EssayRequest) (models.EssayGrade, error) {
	r.Essay = strings.TrimSpace(r.Essay)
	if r.Essay == "" {
		return models.EssayGrade{}, apperrors.NewInvalidRequestError("essay text is required")
	}
	if r.OutOf <= 0 {
		r.OutOf = normalize.DefaultEssayOutOf
	}

	ec := normalize.EssayContext{OutOf: r.OutOf}
	return run(ctx, p, call{
		feature: config.FeatureEssayGrade,
		kind:    models.ResultKindEssayGrade,
		prompt:  essayPrompt(r),
		system:  jsonOnlySystemPrompt,
	}, func(obj map[string]interface{}) (models.EssayGrade, error) {
		return normalize.EssayGrade(obj, ec)
	})
}

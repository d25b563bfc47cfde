// internal/workers/study-ai/grade-essay/handler_test.go
package gradeessay

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyai-workers/internal/common/camunda/camundatest"
	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/common/logger"
	"studyai-workers/internal/common/pipeline"
	"studyai-workers/internal/models"
)

type fakeGenerator struct {
	grade models.EssayGrade
	err   error
	last  pipeline.EssayRequest
}

func (f *fakeGenerator) GradeEssay(ctx context.Context, r pipeline.EssayRequest) (models.EssayGrade, error) {
	f.last = r
	return f.grade, f.err
}

func sampleGrade() models.EssayGrade {
	return models.EssayGrade{
		OverallScore: 17,
		OutOf:        20,
		Summary:      "Clear argument with thin evidence.",
		Criteria: []models.EssayCriterion{
			{Name: "Thesis", Score: 9, OutOf: 10, Feedback: "Focused."},
			{Name: "Evidence", Score: 8, OutOf: 10, Feedback: "Needs more sources."},
		},
		Strengths:    []string{"structure"},
		Improvements: []string{"citations"},
	}
}

func newHandler(t *testing.T, gen Generator) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, gen, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_Success(t *testing.T) {
	gen := &fakeGenerator{grade: sampleGrade()}
	output, err := newHandler(t, gen).Execute(context.Background(), &Input{
		Essay:      "Rome fell for many reasons...",
		Assignment: "Why did Rome fall?",
		OutOf:      20,
	})
	require.NoError(t, err)

	assert.Equal(t, 85.0, output.Percentage)
	assert.Equal(t, 17.0, output.Grade.OverallScore)
	assert.Equal(t, 20.0, gen.last.OutOf)
	assert.Equal(t, "Why did Rome fall?", gen.last.Assignment)
}

func TestHandler_Execute_PropagatesErrors(t *testing.T) {
	gen := &fakeGenerator{err: apperrors.NewInvalidRequestError("essay text is required")}
	_, err := newHandler(t, gen).Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidRequest))
}

func TestHandler_Process_InvalidVariables(t *testing.T) {
	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 3, Variables: `{"outOf":"twenty"}`}}
	_, err := newHandler(t, &fakeGenerator{grade: sampleGrade()}).process(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 85.0, percentage(17, 20))
	assert.Equal(t, 33.3, percentage(1, 3))
	assert.Equal(t, 0.0, percentage(5, 0))
}

func TestHandler_Handle(t *testing.T) {
	job := func() entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: TaskType, Retries: 3, Variables: `{"essay":"Rome fell.","outOf":20}`}}
	}

	t.Run("completes with output", func(t *testing.T) {
		client := camundatest.NewJobClient()
		newHandler(t, &fakeGenerator{grade: sampleGrade()}).Handle(client, job())

		sent := client.Gateway.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "complete", sent[0].Kind)

		var output Output
		require.NoError(t, json.Unmarshal([]byte(sent[0].Variables), &output))
		assert.Equal(t, 85.0, output.Percentage)
	})

	t.Run("throws on unparsable response", func(t *testing.T) {
		client := camundatest.NewJobClient()
		newHandler(t, &fakeGenerator{err: apperrors.NewParseError(TaskType)}).Handle(client, job())

		sent := client.Gateway.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "throw", sent[0].Kind)
		assert.Equal(t, "AI_RESPONSE_UNPARSABLE", sent[0].ErrorCode)
	})
}

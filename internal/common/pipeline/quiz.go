package pipeline

import (
	"context"
	"strings"

	"studyai-workers/internal/common/config"
	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/common/normalize"
	"studyai-workers/internal/models"
)

const (
	defaultQuestionCount = 5
	maxQuestionCount     = 25
)

type QuizRequest struct {
	Topic         string
	Difficulty    string
	QuestionCount int
	SourceText    string
}

type PracticeProblemsRequest struct {
	Subject    string
	Topic      string
	Difficulty string
	Count      int
}

func (p *Pipeline) GenerateQuiz(ctx context.Context, r QuizRequest) (models.QuizResult, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	r.SourceText = strings.TrimSpace(r.SourceText)
	if r.Topic == "" && r.SourceText == "" {
		return models.QuizResult{}, apperrors.NewInvalidRequestError("a topic or source text is required")
	}
	r.Difficulty = orDefault(r.Difficulty, normalize.DefaultDifficulty)
	r.QuestionCount = boundCount(r.QuestionCount, defaultQuestionCount, maxQuestionCount)

	qc := normalize.QuizContext{Topic: r.Topic, Difficulty: r.Difficulty}
	return run(ctx, p, call{
		feature: config.FeatureQuiz,
		kind:    models.ResultKindQuiz,
		prompt:  quizPrompt(r),
		system:  jsonOnlySystemPrompt,
	}, func(obj map[string]interface{}) (models.QuizResult, error) {
		return normalize.Quiz(obj, qc)
	})
}

// GeneratePracticeProblems produces quiz-shaped problem sets.
func (p *Pipeline) GeneratePracticeProblems(ctx context.Context, r PracticeProblemsRequest) (models.QuizResult, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return models.QuizResult{}, apperrors.NewInvalidRequestError("topic is required")
	}
	r.Subject = strings.TrimSpace(r.Subject)
	r.Difficulty = orDefault(r.Difficulty, normalize.DefaultDifficulty)
	r.Count = boundCount(r.Count, defaultQuestionCount, maxQuestionCount)

	qc := normalize.QuizContext{Topic: r.Topic, Difficulty: r.Difficulty, Title: r.Topic + " Practice Problems"}
	return run(ctx, p, call{
		feature: config.FeaturePracticeProblems,
		kind:    models.ResultKindQuiz,
		prompt:  practicePrompt(r),
		system:  jsonOnlySystemPrompt,
	}, func(obj map[string]interface{}) (models.QuizResult, error) {
		return normalize.Quiz(obj, qc)
	})
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func boundCount(n, fallback, max int) int {
	if n <= 0 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}

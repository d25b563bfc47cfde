// internal/workers/study-ai/generate-quiz/models.go
package generatequiz

import "studyai-workers/internal/models"

type Input struct {
	Topic         string `json:"topic"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
	SourceText    string `json:"sourceText"`
}

type Output struct {
	Quiz          models.QuizResult `json:"quiz"`
	QuestionCount int               `json:"questionCount"`
}

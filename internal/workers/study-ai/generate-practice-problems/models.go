// internal/workers/study-ai/generate-practice-problems/models.go
package generatepracticeproblems

import "studyai-workers/internal/models"

type Input struct {
	Subject    string `json:"subject"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

type Output struct {
	Problems     models.QuizResult `json:"problems"`
	ProblemCount int               `json:"problemCount"`
}

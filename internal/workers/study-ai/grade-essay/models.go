// internal/workers/study-ai/grade-essay/models.go
package gradeessay

import "studyai-workers/internal/models"

type Input struct {
	Essay      string  `json:"essay"`
	Assignment string  `json:"assignment"`
	Rubric     string  `json:"rubric"`
	GradeLevel string  `json:"gradeLevel"`
	OutOf      float64 `json:"outOf"`
}

type Output struct {
	Grade models.EssayGrade `json:"grade"`
	// Percentage is OverallScore/OutOf*100, rounded to one decimal.
	Percentage float64 `json:"percentage"`
}

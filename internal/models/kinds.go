// internal/models/kinds.go
package models

// ResultKind names one of the closed set of normalized result shapes.
type ResultKind string

const (
	ResultKindQuiz       ResultKind = "quiz"
	ResultKindFlashcards ResultKind = "flashcards"
	ResultKindEssayGrade ResultKind = "essay_grade"
	ResultKindCitation   ResultKind = "citation"
)

// ResultKinds lists every kind in a stable order.
var ResultKinds = []ResultKind{
	ResultKindQuiz,
	ResultKindFlashcards,
	ResultKindEssayGrade,
	ResultKindCitation,
}

// Label is the human wording used in messages ("usable quiz").
func (k ResultKind) Label() string {
	switch k {
	case ResultKindQuiz:
		return "quiz"
	case ResultKindFlashcards:
		return "flashcard deck"
	case ResultKindEssayGrade:
		return "essay grade"
	case ResultKindCitation:
		return "citation"
	default:
		return string(k)
	}
}

// internal/workers/study-ai/generate-flashcards/models.go
package generateflashcards

import "studyai-workers/internal/models"

type Input struct {
	Topic      string `json:"topic"`
	CardCount  int    `json:"cardCount"`
	SourceText string `json:"sourceText"`
}

type Output struct {
	Deck      models.FlashcardDeck `json:"deck"`
	CardCount int                  `json:"cardCount"`
}

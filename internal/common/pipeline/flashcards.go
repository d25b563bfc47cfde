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
	defaultCardCount = 10
	maxCardCount     = 50
)

type FlashcardsRequest struct {
	Topic      string
	CardCount  int
	SourceText string
}

func (p *Pipeline) GenerateFlashcards(ctx context.Context, r FlashcardsRequest) (models.FlashcardDeck, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	r.SourceText = strings.TrimSpace(r.SourceText)
	if r.Topic == "" && r.SourceText == "" {
		return models.FlashcardDeck{}, apperrors.NewInvalidRequestError("a topic or source text is required")
	}
	r.CardCount = boundCount(r.CardCount, defaultCardCount, maxCardCount)

	dc := normalize.DeckContext{Topic: r.Topic}
	return run(ctx, p, call{
		feature: config.FeatureFlashcards,
		kind:    models.ResultKindFlashcards,
		prompt:  flashcardsPrompt(r),
		system:  jsonOnlySystemPrompt,
	}, func(obj map[string]interface{}) (models.FlashcardDeck, error) {
		return normalize.Flashcards(obj, dc)
	})
}

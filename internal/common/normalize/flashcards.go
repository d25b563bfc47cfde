package normalize

import (
	"fmt"

	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/models"
)

const DefaultMemoryTip = "Try to recall the answer before flipping the card."

type DeckContext struct {
	Title string
	Topic string
}

// Flashcards keeps cards with both a front and a back. An empty deck is a NORMALIZATION_ERROR.
func Flashcards(obj interface{}, dc DeckContext) (models.FlashcardDeck, error) {
	root := asObject(obj)

	topic := textOr(root["topic"], textOr(dc.Topic, DefaultTopic))
	deck := models.FlashcardDeck{
		Title: textOr(root["title"], textOr(dc.Title, topic+" Flashcards")),
		Topic: topic,
		Cards: []models.Flashcard{},
	}

	raw := firstList(root, "cards", "flashcards")
	for _, item := range raw {
		c := asObject(item)
		front := text(first(c, "front", "term"))
		back := text(first(c, "back", "definition"))
		if front == "" || back == "" {
			continue
		}
		deck.Cards = append(deck.Cards, models.Flashcard{
			Front:     front,
			Back:      back,
			MemoryTip: textOr(first(c, "memoryTip", "hint"), DefaultMemoryTip),
		})
	}
	recordDropped(models.ResultKindFlashcards, len(raw)-len(deck.Cards))

	if len(deck.Cards) == 0 {
		return models.FlashcardDeck{}, apperrors.NewNormalizationError(
			models.ResultKindFlashcards.Label(),
			fmt.Sprintf("no valid cards among %d returned", len(raw)),
		)
	}
	return deck, nil
}

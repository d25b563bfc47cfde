package validation

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/models"
)

func TestSchemaFor_EveryKind(t *testing.T) {
	for _, kind := range models.ResultKinds {
		text, err := SchemaFor(kind)
		require.NoError(t, err)
		assert.Contains(t, text, `"type": "object"`)
	}

	_, err := SchemaFor("unknown")
	assert.Error(t, err)
}

func TestValidateResult_Quiz(t *testing.T) {
	valid := models.QuizResult{
		Title:      "Cells Quiz",
		Topic:      "Cells",
		Difficulty: "easy",
		Questions: []models.QuizQuestion{
			{Question: "Powerhouse?", Options: []string{"Nucleus", "Mitochondria"}, CorrectIndex: 1, Explanation: "ATP"},
		},
	}
	vr, err := ValidateResult(models.ResultKindQuiz, valid)
	require.NoError(t, err)
	assert.True(t, vr.Valid, vr.GetErrorMessages())

	invalid := valid
	invalid.Questions = []models.QuizQuestion{{Question: "", Options: []string{"only"}, CorrectIndex: -1}}
	vr, err = ValidateResult(models.ResultKindQuiz, invalid)
	require.NoError(t, err)
	assert.False(t, vr.Valid)
	assert.NotEmpty(t, vr.GetErrorMessages())
}

func TestValidateResult_Others(t *testing.T) {
	tests := []struct {
		name  string
		kind  models.ResultKind
		value interface{}
		valid bool
	}{
		{
			name: "deck",
			kind: models.ResultKindFlashcards,
			value: models.FlashcardDeck{Title: "t", Topic: "t", Cards: []models.Flashcard{
				{Front: "f", Back: "b", MemoryTip: "m"},
			}},
			valid: true,
		},
		{
			name:  "empty deck",
			kind:  models.ResultKindFlashcards,
			value: models.FlashcardDeck{Title: "t", Topic: "t", Cards: []models.Flashcard{}},
			valid: false,
		},
		{
			name: "essay grade",
			kind: models.ResultKindEssayGrade,
			value: models.EssayGrade{OverallScore: 80, OutOf: 100, Summary: "ok",
				Criteria: []models.EssayCriterion{}, Strengths: []string{}, Improvements: []string{}},
			valid: true,
		},
		{
			name:  "essay grade with nil lists",
			kind:  models.ResultKindEssayGrade,
			value: models.EssayGrade{OverallScore: 80, OutOf: 100, Summary: "ok"},
			valid: false,
		},
		{
			name:  "citation",
			kind:  models.ResultKindCitation,
			value: models.Citation{Style: "APA", Citation: "c", BibliographyEntry: "c"},
			valid: true,
		},
		{
			name:  "raw map missing fields",
			kind:  models.ResultKindCitation,
			value: map[string]interface{}{"style": "APA"},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr, err := ValidateResult(tt.kind, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, vr.Valid, vr.GetErrorMessages())
		})
	}
}

func TestCheck(t *testing.T) {
	err := Check(models.ResultKindCitation, models.Citation{Style: "APA", Citation: "c", BibliographyEntry: "c"})
	assert.NoError(t, err)

	err = Check(models.ResultKindFlashcards, models.FlashcardDeck{Cards: []models.Flashcard{}})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrNormalization))
}

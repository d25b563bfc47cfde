package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyai-workers/internal/common/completion"
	"studyai-workers/internal/common/config"
	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/common/logger"
	"studyai-workers/internal/common/structured"
)

const repairModel = "gpt-4.1-mini"

type reply struct {
	text string
	err  error
}

// scriptedCompleter answers requests in order from its script.
type scriptedCompleter struct {
	mu       sync.Mutex
	script   []reply
	requests []completion.Request
}

func (s *scriptedCompleter) Complete(ctx context.Context, req completion.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.requests) > len(s.script) {
		return "", fmt.Errorf("unexpected completion request #%d", len(s.requests))
	}
	r := s.script[len(s.requests)-1]
	return r.text, r.err
}

func testFeatures() map[string]config.FeatureConfig {
	return map[string]config.FeatureConfig{
		config.FeatureQuiz:             {Model: "gpt-4o-mini", Temperature: 0.7, MaxTokens: 2000},
		config.FeatureFlashcards:       {Model: "gpt-4o-mini", Temperature: 0.6, MaxTokens: 2000},
		config.FeatureEssayGrade:       {Model: "gpt-4o", Temperature: 0.3, MaxTokens: 3000},
		config.FeatureCitation:         {Model: "gpt-4o-mini", Temperature: 0.2, MaxTokens: 800, WebSearch: true},
		config.FeaturePracticeProblems: {Model: "gpt-4o-mini", Temperature: 0.7, MaxTokens: 2000},
	}
}

func newTestPipeline(t *testing.T, script ...reply) (*Pipeline, *scriptedCompleter) {
	fake := &scriptedCompleter{script: script}
	log := logger.NewTestLogger(t)
	return New(fake, structured.NewRepairer(fake, repairModel, 1500, log), testFeatures(), log), fake
}

const threeQuestionQuiz = `{"title":"Cells","topic":"Biology","difficulty":"easy","questions":[
	{"question":"Powerhouse of the cell?","options":["Nucleus","Mitochondria","Ribosome"],"correctIndex":1,"explanation":"ATP"},
	{"question":"Protein synthesis?","options":["Ribosome","Golgi","Lysosome"],"correctOption":"A"},
	{"question":"Holds DNA?","options":["Vacuole","Nucleus","Membrane"],"correctOption":"B"}
]}`

func TestGenerateQuiz_DirectJSON(t *testing.T) {
	p, fake := newTestPipeline(t, reply{text: threeQuestionQuiz})

	quiz, err := p.GenerateQuiz(context.Background(), QuizRequest{Topic: "Biology", Difficulty: "easy", QuestionCount: 3})
	require.NoError(t, err)

	require.Len(t, quiz.Questions, 3)
	assert.Equal(t, 0, quiz.Questions[1].CorrectIndex)
	assert.Equal(t, 1, quiz.Questions[2].CorrectIndex)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "gpt-4o-mini", req.ModelID)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 2000, req.MaxTokens)
	assert.Contains(t, req.Prompt, "3 questions")
	assert.Contains(t, req.Prompt, `"Biology"`)
	assert.NotEmpty(t, req.SystemPrompt)
}

func TestGenerateQuiz_FencedAfterProse(t *testing.T) {
	p, fake := newTestPipeline(t, reply{text: "Sure! Here's your quiz:\n```json\n" + threeQuestionQuiz + "\n```"})

	quiz, err := p.GenerateQuiz(context.Background(), QuizRequest{Topic: "Biology"})
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 3)
	assert.Len(t, fake.requests, 1, "no repair when a strategy recovers the object")
}

func TestGenerateQuiz_RepairRecovers(t *testing.T) {
	p, fake := newTestPipeline(t,
		reply{text: "Q1: Powerhouse of the cell? a) Nucleus b) Mitochondria. Answer: b"},
		reply{text: `{"questions":[{"question":"Powerhouse of the cell?","options":["Nucleus","Mitochondria"],"correctIndex":1}]}`},
	)

	quiz, err := p.GenerateQuiz(context.Background(), QuizRequest{Topic: "Biology"})
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 1, quiz.Questions[0].CorrectIndex)

	require.Len(t, fake.requests, 2)
	repair := fake.requests[1]
	assert.Equal(t, repairModel, repair.ModelID)
	assert.Equal(t, 0.0, repair.Temperature)
	assert.Contains(t, repair.Prompt, "Powerhouse of the cell?")
	assert.Contains(t, repair.Prompt, `"questions"`)
}

func TestGenerateQuiz_ProseTwiceIsParseError(t *testing.T) {
	p, fake := newTestPipeline(t,
		reply{text: "Photosynthesis is how plants make food."},
		reply{text: "I'm sorry, there is no quiz in that text."},
	)

	_, err := p.GenerateQuiz(context.Background(), QuizRequest{Topic: "Plants"})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrParse))
	assert.Len(t, fake.requests, 2, "exactly one repair attempt")
}

func TestPipeline_CompletionErrorsPropagate(t *testing.T) {
	connectivity := apperrors.NewConnectivityError(stderrors.New("dial tcp: no route to host"))
	upstream := apperrors.NewUpstreamError(429, "Rate limit reached")

	tests := []struct {
		name         string
		script       []reply
		wantErr      error
		wantRequests int
	}{
		{"primary offline", []reply{{err: connectivity}}, apperrors.ErrConnectivity, 1},
		{"primary rejected", []reply{{err: upstream}}, apperrors.ErrUpstream, 1},
		{"repair offline", []reply{{text: "prose"}, {err: connectivity}}, apperrors.ErrConnectivity, 2},
		{"repair rejected", []reply{{text: "prose"}, {err: upstream}}, apperrors.ErrUpstream, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, fake := newTestPipeline(t, tt.script...)

			_, err := p.GenerateFlashcards(context.Background(), FlashcardsRequest{Topic: "Spanish"})
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.wantErr))
			assert.Len(t, fake.requests, tt.wantRequests)
		})
	}
}

func TestGenerateFlashcards_DropsIncompleteCards(t *testing.T) {
	var cards []string
	for i := 0; i < 10; i++ {
		back := fmt.Sprintf("%q", fmt.Sprintf("meaning %d", i))
		if i == 2 || i == 5 {
			back = `""`
		}
		cards = append(cards, fmt.Sprintf(`{"front":"word %d","back":%s}`, i, back))
	}
	p, fake := newTestPipeline(t, reply{text: `{"title":"Vocab","cards":[` + strings.Join(cards, ",") + `]}`})

	deck, err := p.GenerateFlashcards(context.Background(), FlashcardsRequest{Topic: "Spanish", CardCount: 10})
	require.NoError(t, err)
	assert.Len(t, deck.Cards, 8)
	assert.Equal(t, 0.6, fake.requests[0].Temperature)
}

func TestGenerateFlashcards_NoUsableCards(t *testing.T) {
	p, _ := newTestPipeline(t, reply{text: `{"cards":[{"front":"a"},{"back":"b"}]}`})

	_, err := p.GenerateFlashcards(context.Background(), FlashcardsRequest{Topic: "Spanish"})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrNormalization))
}

func TestGradeEssay_ClampsScore(t *testing.T) {
	p, fake := newTestPipeline(t, reply{text: `{"overallScore":150,"outOf":100,"summary":"Strong.","criteria":[{"name":"Thesis","score":9}]}`})

	grade, err := p.GradeEssay(context.Background(), EssayRequest{Essay: "Essays are great.", Rubric: "Thesis, evidence"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, grade.OverallScore)
	assert.Equal(t, 100.0, grade.OutOf)
	require.Len(t, grade.Criteria, 1)

	req := fake.requests[0]
	assert.Equal(t, "gpt-4o", req.ModelID)
	assert.Equal(t, 0.3, req.Temperature)
	assert.Contains(t, req.Prompt, "out of 100")
	assert.Contains(t, req.Prompt, "Thesis, evidence")
}

func TestGenerateCitation(t *testing.T) {
	p, fake := newTestPipeline(t, reply{text: "Here it is: {\"citation\":\"Doe, J. (2020). Cells. Bio Press.\",\"inTextCitation\":\"(Doe, 2020)\"}"})

	c, err := p.GenerateCitation(context.Background(), CitationRequest{
		Style:   "APA",
		Title:   "Cells",
		Authors: []string{"Jane Doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "APA", c.Style)
	assert.Equal(t, c.Citation, c.BibliographyEntry)
	assert.Equal(t, "(Doe, 2020)", c.InTextCitation)

	req := fake.requests[0]
	assert.True(t, req.WebSearch)
	assert.Equal(t, 0.2, req.Temperature)
	assert.Contains(t, req.Prompt, "Authors: Jane Doe")
}

func TestGeneratePracticeProblems_UsesQuizShape(t *testing.T) {
	p, fake := newTestPipeline(t, reply{text: `{"questions":[{"question":"Solve 2x = 4","options":["1","2","4"],"correctAnswer":"B"}]}`})

	set, err := p.GeneratePracticeProblems(context.Background(), PracticeProblemsRequest{Subject: "Math", Topic: "Linear equations", Count: 1})
	require.NoError(t, err)
	require.Len(t, set.Questions, 1)
	assert.Equal(t, 1, set.Questions[0].CorrectIndex)
	assert.Equal(t, "Linear equations Practice Problems", set.Title)
	assert.Equal(t, "Linear equations", set.Topic)
	assert.Contains(t, fake.requests[0].Prompt, "in Math")
}

func TestPipeline_InvalidRequestsMakeNoCalls(t *testing.T) {
	p, fake := newTestPipeline(t)
	ctx := context.Background()

	_, err := p.GenerateQuiz(ctx, QuizRequest{Topic: "  "})
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidRequest))
	_, err = p.GenerateFlashcards(ctx, FlashcardsRequest{})
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidRequest))
	_, err = p.GradeEssay(ctx, EssayRequest{Essay: "\n"})
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidRequest))
	_, err = p.GenerateCitation(ctx, CitationRequest{Style: "MLA"})
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidRequest))
	_, err = p.GeneratePracticeProblems(ctx, PracticeProblemsRequest{Subject: "Math"})
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidRequest))

	assert.Empty(t, fake.requests)
}

func TestBoundCount(t *testing.T) {
	assert.Equal(t, 5, boundCount(0, 5, 25))
	assert.Equal(t, 25, boundCount(100, 5, 25))
	assert.Equal(t, 7, boundCount(7, 5, 25))
}

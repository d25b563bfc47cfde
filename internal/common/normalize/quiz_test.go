package normalize

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/common/structured"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &obj))
	return obj
}

// roundTrip re-decodes v the way a stored or forwarded result would come back.
func roundTrip(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return decode(t, string(data))
}

const letterQuiz = `{
  "title": "Cell Biology",
  "questions": [
    {"question": "Powerhouse of the cell?", "options": ["Nucleus", "Mitochondria", "Ribosome"], "correctIndex": 1, "explanation": "ATP."},
    {"question": "Site of protein synthesis?", "options": ["Ribosome", "Golgi", "Lysosome"], "correctOption": "B"},
    {"question": "Holds DNA?", "options": ["Vacuole", "Nucleus"], "correctIndex": 1}
  ]
}`

func TestQuiz_LetterFallback(t *testing.T) {
	quiz, err := Quiz(decode(t, letterQuiz), QuizContext{Topic: "Biology", Difficulty: "easy"})
	require.NoError(t, err)

	require.Len(t, quiz.Questions, 3)
	assert.Equal(t, 1, quiz.Questions[0].CorrectIndex)
	assert.Equal(t, 1, quiz.Questions[1].CorrectIndex)
	assert.Equal(t, 1, quiz.Questions[2].CorrectIndex)

	assert.Equal(t, "Cell Biology", quiz.Title)
	assert.Equal(t, "Biology", quiz.Topic)
	assert.Equal(t, "easy", quiz.Difficulty)
	assert.Equal(t, NoExplanation, quiz.Questions[1].Explanation)
}

func TestQuiz_CorrectIndexResolution(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     int
	}{
		{"integer in range", `{"question":"q","options":["a","b","c"],"correctIndex":2}`, 2},
		{"integral float", `{"question":"q","options":["a","b","c"],"correctIndex":2.0}`, 2},
		{"numeric string", `{"question":"q","options":["a","b","c"],"correctIndex":" 1 "}`, 1},
		{"letter in correctIndex", `{"question":"q","options":["a","b","c"],"correctIndex":"c"}`, 2},
		{"out of range falls to letter", `{"question":"q","options":["a","b","c"],"correctIndex":7,"correctAnswer":"B"}`, 1},
		{"negative falls to letter", `{"question":"q","options":["a","b"],"correctIndex":-1,"correctOption":"b"}`, 1},
		{"fractional ignored", `{"question":"q","options":["a","b","c"],"correctIndex":1.5}`, 0},
		{"letter out of range", `{"question":"q","options":["a","b"],"correctOption":"D"}`, 0},
		{"both invalid defaults to first", `{"question":"q","options":["a","b"],"correctIndex":"x","correctOption":"AB"}`, 0},
		{"missing", `{"question":"q","options":["a","b"]}`, 0},
		{"index follows dropped option", `{"question":"q","options":["", "a", "b"],"correctIndex":2}`, 1},
		{"index on dropped option", `{"question":"q","options":["a", " ", "b"],"correctIndex":1}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz, err := Quiz(map[string]interface{}{
				"questions": []interface{}{decode(t, tt.question)},
			}, QuizContext{})
			require.NoError(t, err)
			require.Len(t, quiz.Questions, 1)

			q := quiz.Questions[0]
			assert.Equal(t, tt.want, q.CorrectIndex)
			assert.True(t, q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options))
		})
	}
}

func TestQuiz_DropsInvalidQuestions(t *testing.T) {
	obj := decode(t, `{"questions": [
		{"question": "", "options": ["a","b"]},
		{"question": "one option", "options": ["a", ""]},
		{"question": "options not a list", "options": "a,b"},
		"not an object",
		{"question": 42, "options": [1, true, null, "x"]}
	]}`)

	quiz, err := Quiz(obj, QuizContext{})
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "42", quiz.Questions[0].Question)
	assert.Equal(t, []string{"1", "true", "x"}, quiz.Questions[0].Options)
}

func TestQuiz_EmptyIsNormalizationError(t *testing.T) {
	for _, obj := range []interface{}{
		nil,
		"a string",
		map[string]interface{}{},
		map[string]interface{}{"questions": "not a list"},
		map[string]interface{}{"questions": []interface{}{map[string]interface{}{"question": "q"}}},
	} {
		_, err := Quiz(obj, QuizContext{})
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, apperrors.ErrNormalization))
	}
}

func TestQuiz_AliasesSkipEmptyLists(t *testing.T) {
	obj := decode(t, `{
	  "questions": [],
	  "problems": [
	    {"prompt": "2 + 2 = ?", "options": [], "choices": ["3", "4"], "correctIndex": 1}
	  ]
	}`)

	quiz, err := Quiz(obj, QuizContext{Topic: "Arithmetic"})
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "2 + 2 = ?", quiz.Questions[0].Question)
	assert.Equal(t, []string{"3", "4"}, quiz.Questions[0].Options)
	assert.Equal(t, 1, quiz.Questions[0].CorrectIndex)
}

func TestQuiz_Defaults(t *testing.T) {
	obj := decode(t, `{"questions":[{"question":"q","options":["a","b"]}]}`)

	quiz, err := Quiz(obj, QuizContext{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTopic, quiz.Topic)
	assert.Equal(t, DefaultTopic+" Quiz", quiz.Title)
	assert.Equal(t, DefaultDifficulty, quiz.Difficulty)

	quiz, err = Quiz(obj, QuizContext{Topic: "Algebra"})
	require.NoError(t, err)
	assert.Equal(t, "Algebra Quiz", quiz.Title)
}

func TestQuiz_Idempotent(t *testing.T) {
	first, err := Quiz(decode(t, letterQuiz), QuizContext{Topic: "Biology"})
	require.NoError(t, err)

	second, err := Quiz(roundTrip(t, first), QuizContext{Topic: "something else"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuiz_ExtractThenNormalizeKeepsOrder(t *testing.T) {
	raw := "Sure! Here's your quiz:\n```json\n" + `{
	  "questions": [
	    {"question": "1 + 1?", "options": ["1", "2"], "correctIndex": 1},
	    {"question": "2 + 2?", "options": ["4", "5"], "correctIndex": 0},
	    {"question": "3 + 3?", "options": ["5", "6"], "correctOption": "B"},
	    {"question": "4 + 4?", "options": ["8", "9"], "correctIndex": 0}
	  ]
	}` + "\n```"

	obj, ok := structured.ExtractJSON(raw)
	require.True(t, ok)

	quiz, err := Quiz(obj, QuizContext{})
	require.NoError(t, err)

	var got []string
	for _, q := range quiz.Questions {
		got = append(got, q.Question)
	}
	assert.Equal(t, []string{"1 + 1?", "2 + 2?", "3 + 3?", "4 + 4?"}, got)
	assert.Equal(t, []int{1, 0, 1, 0}, []int{
		quiz.Questions[0].CorrectIndex, quiz.Questions[1].CorrectIndex,
		quiz.Questions[2].CorrectIndex, quiz.Questions[3].CorrectIndex,
	})
}

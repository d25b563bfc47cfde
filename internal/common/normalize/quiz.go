package normalize

import (
	"fmt"
	"strings"

	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/models"
)

const (
	DefaultDifficulty  = "medium"
	DefaultTopic       = "General"
	NoExplanation      = "No explanation provided."
	minQuestionOptions = 2
)

// QuizContext carries what the caller asked for, used when the model leaves a field out.
type QuizContext struct {
	Title      string
	Topic      string
	Difficulty string
}

// Quiz normalizes a parsed quiz object. Questions without text or with fewer than two
// non-empty options are dropped; a quiz with no questions left is a NORMALIZATION_ERROR.
func Quiz(obj interface{}, qc QuizContext) (models.QuizResult, error) {
	root := asObject(obj)

	topic := textOr(root["topic"], textOr(qc.Topic, DefaultTopic))
	result := models.QuizResult{
		Title:      textOr(root["title"], textOr(qc.Title, topic+" Quiz")),
		Topic:      topic,
		Difficulty: textOr(root["difficulty"], textOr(qc.Difficulty, DefaultDifficulty)),
		Questions:  []models.QuizQuestion{},
	}

	raw := firstList(root, "questions", "problems")
	for _, item := range raw {
		if q, ok := quizQuestion(asObject(item)); ok {
			result.Questions = append(result.Questions, q)
		}
	}
	recordDropped(models.ResultKindQuiz, len(raw)-len(result.Questions))

	if len(result.Questions) == 0 {
		return models.QuizResult{}, apperrors.NewNormalizationError(
			models.ResultKindQuiz.Label(),
			fmt.Sprintf("no valid questions among %d returned", len(raw)),
		)
	}
	return result, nil
}

func quizQuestion(q map[string]interface{}) (models.QuizQuestion, bool) {
	question := text(first(q, "question", "prompt"))
	if question == "" {
		return models.QuizQuestion{}, false
	}

	// position maps an index in the model's option list to its index after filtering.
	position := map[int]int{}
	options := []string{}
	for i, o := range firstList(q, "options", "choices") {
		if s := text(o); s != "" {
			position[i] = len(options)
			options = append(options, s)
		}
	}
	if len(options) < minQuestionOptions {
		return models.QuizQuestion{}, false
	}

	return models.QuizQuestion{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex(q, position),
		Explanation:  textOr(q["explanation"], NoExplanation),
	}, true
}

// correctIndex prefers an in-range integer correctIndex, then a single letter in
// correctIndex, correctOption or correctAnswer (A=0, B=1, ...). Anything else is 0.
func correctIndex(q map[string]interface{}, position map[int]int) int {
	if i, ok := integer(q["correctIndex"]); ok {
		if p, ok := position[i]; ok {
			return p
		}
	}
	for _, key := range []string{"correctIndex", "correctOption", "correctAnswer"} {
		if i, ok := letterIndex(q[key]); ok {
			if p, ok := position[i]; ok {
				return p
			}
		}
	}
	return 0
}

func letterIndex(v interface{}) (int, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, false
	}
	return int(s[0] - 'A'), true
}

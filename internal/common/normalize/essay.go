package normalize

import (
	"studyai-workers/internal/models"
)

const (
	DefaultEssayOutOf     = 100
	DefaultCriterionOutOf = 10
	NoSummary             = "No summary provided."
	NoFeedback            = "No feedback provided."
)

// EssayContext carries the rubric maximum the caller asked for, if any.
type EssayContext struct {
	OutOf float64
}

// EssayGrade never fails: criteria may legitimately be empty. OverallScore is clamped
// into [0, OutOf] and every criterion score into [0, its OutOf].
func EssayGrade(obj interface{}, ec EssayContext) (models.EssayGrade, error) {
	root := asObject(obj)

	outOf := numberOr(root["outOf"], 0)
	if outOf <= 0 {
		outOf = ec.OutOf
	}
	if outOf <= 0 {
		outOf = DefaultEssayOutOf
	}

	grade := models.EssayGrade{
		OverallScore: clamp(numberOr(first(root, "overallScore", "score"), 0), 0, outOf),
		OutOf:        outOf,
		Summary:      textOr(first(root, "summary", "overallFeedback"), NoSummary),
		Criteria:     []models.EssayCriterion{},
		Strengths:    textList(root["strengths"]),
		Improvements: textList(root["improvements"]),
	}

	raw := asList(root["criteria"])
	for _, item := range raw {
		c := asObject(item)
		name := text(first(c, "name", "criterion"))
		if name == "" {
			continue
		}
		cOutOf := numberOr(c["outOf"], DefaultCriterionOutOf)
		if cOutOf <= 0 {
			cOutOf = DefaultCriterionOutOf
		}
		grade.Criteria = append(grade.Criteria, models.EssayCriterion{
			Name:     name,
			Score:    clamp(numberOr(c["score"], 0), 0, cOutOf),
			OutOf:    cOutOf,
			Feedback: textOr(c["feedback"], NoFeedback),
		})
	}
	recordDropped(models.ResultKindEssayGrade, len(raw)-len(grade.Criteria))

	return grade, nil
}

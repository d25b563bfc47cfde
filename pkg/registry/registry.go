// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"net/http"

	"studyai-workers/internal/common/config"
	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/common/validation"
	"studyai-workers/internal/models"
)

const (
	Version  = "1.0.0"
	Category = "study-ai"
)

type entry struct {
	displayName string
	description string
	kind        models.ResultKind
	outputKey   string
	tags        []string
}

var catalog = map[string]entry{
	config.FeatureQuiz: {
		displayName: "Generate Quiz",
		description: "Multiple-choice quiz from a topic or source text",
		kind:        models.ResultKindQuiz,
		outputKey:   "quiz",
		tags:        []string{"quiz", "assessment"},
	},
	config.FeatureFlashcards: {
		displayName: "Generate Flashcards",
		description: "Flashcard deck with memory tips",
		kind:        models.ResultKindFlashcards,
		outputKey:   "deck",
		tags:        []string{"flashcards", "revision"},
	},
	config.FeatureEssayGrade: {
		displayName: "Grade Essay",
		description: "Rubric-based essay score with criterion feedback",
		kind:        models.ResultKindEssayGrade,
		outputKey:   "grade",
		tags:        []string{"essay", "assessment"},
	},
	config.FeatureCitation: {
		displayName: "Generate Citation",
		description: "Formatted citation and bibliography entry for a source",
		kind:        models.ResultKindCitation,
		outputKey:   "citation",
		tags:        []string{"citation", "writing"},
	},
	config.FeaturePracticeProblems: {
		displayName: "Generate Practice Problems",
		description: "Quiz-shaped practice problem set for a subject and topic",
		kind:        models.ResultKindQuiz,
		outputKey:   "problems",
		tags:        []string{"practice", "assessment"},
	},
}

var errorCodes = []string{
	string(apperrors.ErrCodeConnectivity),
	string(apperrors.ErrCodeUpstream),
	string(apperrors.ErrCodeParse),
	string(apperrors.ErrCodeNormalization),
	string(apperrors.ErrCodeInvalidRequest),
}

// Build describes every feature in config.Features order, using cfg for the
// per-feature model settings and worker state.
func Build(cfg *config.Config) (*ActivityRegistry, error) {
	reg := &ActivityRegistry{Version: Version}
	for _, feature := range config.Features {
		e, ok := catalog[feature]
		if !ok {
			return nil, fmt.Errorf("no catalog entry for feature %q", feature)
		}

		text, err := validation.SchemaFor(e.kind)
		if err != nil {
			return nil, err
		}
		var schema map[string]interface{}
		if err := json.Unmarshal([]byte(text), &schema); err != nil {
			return nil, fmt.Errorf("schema for %s: %w", feature, err)
		}

		fc := cfg.Features[feature]
		wc := config.GetWorkerConfig(cfg, feature)
		reg.Activities = append(reg.Activities, Activity{
			ID:           fmt.Sprintf("%s.%s", Category, feature),
			DisplayName:  e.displayName,
			Description:  e.description,
			Category:     Category,
			TaskType:     feature,
			Enabled:      config.IsWorkerEnabled(cfg, feature),
			Model:        fc.Model,
			Temperature:  fc.Temperature,
			WebSearch:    fc.WebSearch,
			OutputKey:    e.outputKey,
			OutputSchema: schema,
			ErrorCodes:   errorCodes,
			Timeout:      config.GetDuration(wc.Timeout).String(),
			Tags:         e.tags,
		})
	}
	return reg, nil
}

// Find returns the activity for taskType.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Handler serves the registry as JSON.
func (r *ActivityRegistry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(r)
	})
}

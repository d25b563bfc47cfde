package structured

import (
	"context"
	"fmt"
	"strings"

	"studyai-workers/internal/common/completion"
	"studyai-workers/internal/common/logger"
)

const repairSystemPrompt = "You convert text into strict JSON. Respond with a single JSON object only. " +
	"Do not use markdown, code fences, or commentary."

// Repairer makes the single schema-directed rescue request for an unparsable response.
type Repairer struct {
	completer completion.Completer
	model     string
	maxTokens int
	logger    logger.Logger
}

func NewRepairer(c completion.Completer, model string, maxTokens int, log logger.Logger) *Repairer {
	return &Repairer{
		completer: c,
		model:     model,
		maxTokens: maxTokens,
		logger:    log.With(map[string]interface{}{"component": "repair"}),
	}
}

// Model is the secondary model repair requests go to.
func (r *Repairer) Model() string { return r.model }

// Repair asks the repair model, at temperature 0, to rewrite rawText as JSON matching
// schemaDescription, then runs the extractor on the answer. A false result means the repair
// produced no object. Errors from the completion request are returned unchanged.
func (r *Repairer) Repair(ctx context.Context, rawText, schemaDescription string) (map[string]interface{}, bool, error) {
	out, err := r.completer.Complete(ctx, completion.Request{
		Prompt:       BuildRepairPrompt(rawText, schemaDescription),
		SystemPrompt: repairSystemPrompt,
		ModelID:      r.model,
		MaxTokens:    r.maxTokens,
		Temperature:  0,
	})
	if err != nil {
		return nil, false, err
	}

	ex, ok := ExtractAt("repair", out)
	if !ok {
		r.logger.Warn("repair output was not JSON", map[string]interface{}{
			"model": r.model,
			"chars": len(out),
		})
		return nil, false, nil
	}

	r.logger.Debug("repair recovered object", map[string]interface{}{
		"model":    r.model,
		"strategy": ex.Strategy,
	})
	return ex.Object, true, nil
}

func BuildRepairPrompt(rawText, schemaDescription string) string {
	var b strings.Builder
	b.WriteString("Convert the following text into valid JSON that matches this schema exactly.\n")
	b.WriteString("Return only the JSON object. Do not use markdown.\n\n")
	fmt.Fprintf(&b, "Schema:\n%s\n\n", strings.TrimSpace(schemaDescription))
	fmt.Fprintf(&b, "Text:\n%s\n", rawText)
	return b.String()
}

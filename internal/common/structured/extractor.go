// Package structured recovers JSON objects from free-form model output.
package structured

import (
	"encoding/json"

	"studyai-workers/internal/common/metrics"
)

// Extraction is a recovered object and the strategy that produced it.
type Extraction struct {
	Object   map[string]interface{}
	Strategy string
}

// ExtractJSON returns the first object any strategy recovers from raw.
func ExtractJSON(raw string) (map[string]interface{}, bool) {
	ex, ok := Extract(raw)
	if !ok {
		return nil, false
	}
	return ex.Object, true
}

// Extract tries every strategy in order. Only a JSON object counts as a result;
// arrays, scalars and null are rejected like a parse failure.
func Extract(raw string) (Extraction, bool) {
	for _, s := range Strategies {
		candidate := s.Extract(raw)
		if candidate == "" {
			continue
		}
		if obj, ok := parseObject(candidate); ok {
			return Extraction{Object: obj, Strategy: s.Name}, true
		}
	}
	return Extraction{}, false
}

func parseObject(candidate string) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// recordExtraction counts which strategy won at a pipeline stage ("primary" or "repair").
func recordExtraction(stage string, ex Extraction, ok bool) {
	strategy := "none"
	if ok {
		strategy = ex.Strategy
	}
	metrics.ExtractionOutcomes.WithLabelValues(stage, strategy).Inc()
}

// ExtractAt is Extract plus the extraction metric for stage.
func ExtractAt(stage, raw string) (Extraction, bool) {
	ex, ok := Extract(raw)
	recordExtraction(stage, ex, ok)
	return ex, ok
}

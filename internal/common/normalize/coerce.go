// Package normalize turns loosely typed model output into the typed results in
// internal/models. Nothing of type map[string]interface{} leaves this package.
package normalize

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"studyai-workers/internal/common/metrics"
	"studyai-workers/internal/models"
)

func asObject(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// asList returns v as a list, or an empty list when v is anything else.
func asList(v interface{}) []interface{} {
	if l, ok := v.([]interface{}); ok {
		return l
	}
	return []interface{}{}
}

// text converts scalars to trimmed strings. Objects, lists and nil become "".
func text(v interface{}) string {
	switch v.(type) {
	case nil, map[string]interface{}, []interface{}:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func textOr(v interface{}, placeholder string) string {
	if s := text(v); s != "" {
		return s
	}
	return placeholder
}

// first returns the value of the first key present in obj.
func first(obj map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstList returns the first non-empty list found under keys.
func firstList(obj map[string]interface{}, keys ...string) []interface{} {
	for _, k := range keys {
		if l := asList(obj[k]); len(l) > 0 {
			return l
		}
	}
	return []interface{}{}
}

// number accepts JSON numbers and numeric strings. Booleans are not numbers here.
func number(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case nil, bool, map[string]interface{}, []interface{}:
		return 0, false
	case string:
		v = strings.TrimSpace(t)
		if v == "" {
			return 0, false
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numberOr(v interface{}, fallback float64) float64 {
	if f, ok := number(v); ok {
		return f
	}
	return fallback
}

// integer accepts numbers with no fractional part.
func integer(v interface{}) (int, bool) {
	f, ok := number(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// textList keeps the non-empty strings of a list.
func textList(v interface{}) []string {
	out := []string{}
	for _, item := range asList(v) {
		if s := text(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func recordDropped(kind models.ResultKind, n int) {
	if n > 0 {
		metrics.NormalizerDropped.WithLabelValues(string(kind)).Add(float64(n))
	}
}

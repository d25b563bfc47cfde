package structured

import "strings"

// Strategy turns raw model output into one candidate for a strict JSON parse.
// An empty candidate is skipped.
type Strategy struct {
	Name    string
	Extract func(raw string) string
}

const (
	StrategyRaw       = "raw"
	StrategyJSONFence = "json-fence"
	StrategyFence     = "fence"
	StrategyBraces    = "braces"
)

const fence = "```"

// Strategies is tried in order; the first candidate that parses into an object wins.
var Strategies = []Strategy{
	{Name: StrategyRaw, Extract: TrimRaw},
	{Name: StrategyJSONFence, Extract: StripJSONFence},
	{Name: StrategyFence, Extract: StripFence},
	{Name: StrategyBraces, Extract: OuterBraces},
}

func TrimRaw(raw string) string {
	return strings.TrimSpace(raw)
}

// StripJSONFence returns the text after the first ```json marker (any case), up to the
// last closing fence.
func StripJSONFence(raw string) string {
	idx := strings.Index(strings.ToLower(raw), fence+"json")
	if idx < 0 {
		return ""
	}
	return untilClosingFence(raw[idx+len(fence)+len("json"):])
}

// StripFence returns the text after the first ``` marker, up to the last closing fence.
func StripFence(raw string) string {
	idx := strings.Index(raw, fence)
	if idx < 0 {
		return ""
	}
	return untilClosingFence(raw[idx+len(fence):])
}

// OuterBraces returns the substring from the first '{' to the last '}'.
func OuterBraces(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

func untilClosingFence(body string) string {
	if end := strings.LastIndex(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

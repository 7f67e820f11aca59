package eligibility

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/insurelab/claimlens/internal/model"
)

// structuredVerdict is the JSON shape the model is asked to produce
type structuredVerdict struct {
	Decision    string   `json:"decision"`
	Confidence  float64  `json:"confidence"`
	Explanation string   `json:"explanation"`
	Reasoning   []string `json:"reasoning,omitempty"`
}

// parsedVerdict is the outcome of interpreting one model response
type parsedVerdict struct {
	Decision       model.Decision
	Confidence     float64
	Explanation    string
	ReasoningSteps []string
}

const fallbackExplanationLimit = 500

// ParseResponse interprets a model completion. Structured JSON is preferred;
// anything else falls back to keyword scanning so an unstructured response
// still yields a usable verdict.
func ParseResponse(text string) parsedVerdict {
	if verdict, ok := parseStructured(text); ok {
		return verdict
	}
	return parseFallback(text)
}

func parseStructured(text string) (parsedVerdict, bool) {
	cleaned := cleanJSONContent(text)

	var sv structuredVerdict
	if err := json.Unmarshal([]byte(cleaned), &sv); err != nil {
		return parsedVerdict{}, false
	}

	decision := model.Decision(strings.ToUpper(strings.TrimSpace(sv.Decision)))
	switch decision {
	case model.DecisionApproved, model.DecisionDenied, model.DecisionRequiresReview:
	default:
		return parsedVerdict{}, false
	}

	return parsedVerdict{
		Decision:       decision,
		Confidence:     clamp01(sv.Confidence),
		Explanation:    strings.TrimSpace(sv.Explanation),
		ReasoningSteps: sv.Reasoning,
	}, true
}

// parseFallback scans an unstructured response for a decision keyword. An
// approval mention wins over a denial mention; neither means human review.
func parseFallback(text string) parsedVerdict {
	lower := strings.ToLower(text)

	decision := model.DecisionRequiresReview
	if strings.Contains(lower, "approved") {
		decision = model.DecisionApproved
	} else if strings.Contains(lower, "denied") || strings.Contains(lower, "reject") {
		decision = model.DecisionDenied
	}

	explanation := truncate(strings.TrimSpace(text), fallbackExplanationLimit)

	return parsedVerdict{
		Decision:    decision,
		Confidence:  0.6,
		Explanation: explanation,
	}
}

// cleanJSONContent strips markdown code fences and surrounding prose so that
// a JSON object embedded in the response can be unmarshalled directly
func cleanJSONContent(text string) string {
	cleaned := strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return cleaned
}

// truncate caps s at limit bytes, backing off to the previous rune boundary
// so multi-byte policy text never yields invalid UTF-8
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

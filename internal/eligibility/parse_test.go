package eligibility

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/insurelab/claimlens/internal/model"
)

func TestParseResponse_StructuredJSON(t *testing.T) {
	text := `{"decision": "APPROVED", "confidence": 0.92, "explanation": "Covered under section 2.", "reasoning": ["covered service", "within limits"]}`

	parsed := ParseResponse(text)
	if parsed.Decision != model.DecisionApproved {
		t.Errorf("Expected APPROVED, got %s", parsed.Decision)
	}
	if parsed.Confidence != 0.92 {
		t.Errorf("Expected confidence 0.92, got %f", parsed.Confidence)
	}
	if parsed.Explanation != "Covered under section 2." {
		t.Errorf("Unexpected explanation: %q", parsed.Explanation)
	}
	if len(parsed.ReasoningSteps) != 2 {
		t.Errorf("Expected 2 reasoning steps, got %d", len(parsed.ReasoningSteps))
	}
}

func TestParseResponse_MarkdownFencedJSON(t *testing.T) {
	text := "```json\n{\"decision\": \"denied\", \"confidence\": 0.8, \"explanation\": \"Excluded.\"}\n```"

	parsed := ParseResponse(text)
	if parsed.Decision != model.DecisionDenied {
		t.Errorf("Expected DENIED from fenced JSON, got %s", parsed.Decision)
	}
}

func TestParseResponse_JSONEmbeddedInProse(t *testing.T) {
	text := `Here is my assessment: {"decision": "REQUIRES_REVIEW", "confidence": 0.5, "explanation": "Ambiguous."} Let me know if you need more.`

	parsed := ParseResponse(text)
	if parsed.Decision != model.DecisionRequiresReview {
		t.Errorf("Expected REQUIRES_REVIEW, got %s", parsed.Decision)
	}
}

func TestParseResponse_ConfidenceClamped(t *testing.T) {
	parsed := ParseResponse(`{"decision": "APPROVED", "confidence": 1.7, "explanation": "x"}`)
	if parsed.Confidence != 1 {
		t.Errorf("Expected confidence clamped to 1, got %f", parsed.Confidence)
	}
}

func TestParseResponse_UnknownDecisionFallsBack(t *testing.T) {
	parsed := ParseResponse(`{"decision": "MAYBE", "confidence": 0.9, "explanation": "unsure"}`)
	if parsed.Confidence != 0.6 {
		t.Errorf("Expected fallback confidence 0.6, got %f", parsed.Confidence)
	}
}

func TestParseResponse_KeywordFallback(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Decision
	}{
		{"approved", "The claim should be approved based on coverage.", model.DecisionApproved},
		{"denied", "This claim must be denied due to exclusions.", model.DecisionDenied},
		{"reject", "I would reject this claim.", model.DecisionDenied},
		{"neither", "The policy language is unclear here.", model.DecisionRequiresReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseResponse(tt.text)
			if parsed.Decision != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, parsed.Decision)
			}
			if parsed.Confidence != 0.6 {
				t.Errorf("Expected fallback confidence 0.6, got %f", parsed.Confidence)
			}
		})
	}
}

func TestParseResponse_FallbackExplanationTruncated(t *testing.T) {
	parsed := ParseResponse(strings.Repeat("unstructured rambling ", 50))
	if len(parsed.Explanation) > 500 {
		t.Errorf("Expected explanation capped at 500 chars, got %d", len(parsed.Explanation))
	}
}

func TestParseResponse_FallbackTruncationKeepsValidUTF8(t *testing.T) {
	// Byte 500 lands inside a two-byte rune; the cut must back off to the
	// previous rune boundary instead of splitting it.
	parsed := ParseResponse(strings.Repeat("a", 499) + strings.Repeat("é", 20))
	if !utf8.ValidString(parsed.Explanation) {
		t.Error("Expected truncated explanation to remain valid UTF-8")
	}
	if len(parsed.Explanation) != 499 {
		t.Errorf("Expected cut at the rune boundary (499 bytes), got %d", len(parsed.Explanation))
	}
}

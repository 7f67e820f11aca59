package eligibility

import (
	"strings"
	"testing"

	"github.com/insurelab/claimlens/internal/model"
)

func TestBuildQuery_StandardFacets(t *testing.T) {
	claim := model.ClaimInput{ClaimType: "medical", Description: "Routine checkup billing"}

	query := BuildQuery(claim)
	for _, facet := range []string{"medical coverage", "deductible", "exclusions", "limits"} {
		if !strings.Contains(query, facet) {
			t.Errorf("Query missing facet %q: %q", facet, query)
		}
	}
}

func TestBuildQuery_KeywordsInVocabularyOrder(t *testing.T) {
	claim := model.ClaimInput{
		ClaimType:   "medical",
		Description: "Emergency visit to the hospital after an accident, then surgery",
	}

	query := BuildQuery(claim)

	// surgery precedes emergency in the vocabulary regardless of description order
	if strings.Index(query, "surgery") > strings.Index(query, "emergency") {
		t.Errorf("Keywords not in vocabulary order: %q", query)
	}
}

func TestBuildQuery_KeywordCap(t *testing.T) {
	claim := model.ClaimInput{
		ClaimType:   "medical",
		Description: "surgery emergency hospital doctor treatment medication therapy diagnostic",
	}

	query := BuildQuery(claim)
	fields := strings.Fields(query)

	// 5 facet words ("medical coverage" is two) plus at most 5 keywords
	if len(fields) > 10 {
		t.Errorf("Expected at most 5 keywords appended, got query %q", query)
	}
	if strings.Contains(query, "therapy") || strings.Contains(query, "diagnostic") {
		t.Errorf("Keywords past the cap leaked into query %q", query)
	}
}

func TestBuildQuery_CaseInsensitiveMatching(t *testing.T) {
	claim := model.ClaimInput{ClaimType: "dental", Description: "EMERGENCY Treatment required"}

	query := BuildQuery(claim)
	if !strings.Contains(query, "emergency") || !strings.Contains(query, "treatment") {
		t.Errorf("Expected case-insensitive keyword matches, got %q", query)
	}
}

package decision

import (
	"strings"
	"testing"

	"github.com/insurelab/claimlens/internal/model"
)

func TestExplain_ApprovedClaim(t *testing.T) {
	fraud := model.FraudAssessment{FraudScore: 0.1, RiskLevel: model.RiskVeryLow}
	v := model.EligibilityVerdict{Explanation: "Covered under emergency care provisions."}

	text := Explain(model.DecisionApproved, v, fraud)
	if !strings.HasPrefix(text, "Your claim has been approved for processing.") {
		t.Errorf("Unexpected opening: %q", text)
	}
	if !strings.Contains(text, "Policy Analysis: Covered under emergency care provisions.") {
		t.Errorf("Missing policy analysis: %q", text)
	}
	if !strings.Contains(text, "Payment processing will begin within 3-5 business days.") {
		t.Errorf("Missing next steps: %q", text)
	}
	if strings.Contains(text, "risk indicators") {
		t.Errorf("Low fraud score should not mention indicators: %q", text)
	}
}

func TestExplain_DeniedClaimWithIndicators(t *testing.T) {
	fraud := model.FraudAssessment{
		FraudScore: 0.85,
		RiskLevel:  model.RiskVeryHigh,
		FraudIndicators: []string{
			"Very high claim amount",
			"Claim submitted same day as incident",
			"Suspicious keyword: no witnesses",
			"Weekend claim submission",
		},
	}
	v := model.EligibilityVerdict{Explanation: "Not covered."}

	text := Explain(model.DecisionDenied, v, fraud)
	if !strings.HasPrefix(text, "Your claim has been denied.") {
		t.Errorf("Unexpected opening: %q", text)
	}
	if !strings.Contains(text, "Our automated review identified very high risk indicators.") {
		t.Errorf("Missing risk sentence: %q", text)
	}
	if !strings.Contains(text, "Specific areas flagged for review:") {
		t.Errorf("Missing indicator lead-in: %q", text)
	}
	if !strings.Contains(text, "• Very high claim amount") {
		t.Errorf("Missing indicator bullet: %q", text)
	}
	if strings.Contains(text, "Weekend claim submission") {
		t.Errorf("Expected at most 3 indicators, got: %q", text)
	}
	if !strings.Contains(text, "You may appeal this decision by contacting our customer service team.") {
		t.Errorf("Missing appeal guidance: %q", text)
	}
}

func TestExplain_ReviewClaim(t *testing.T) {
	fraud := model.FraudAssessment{FraudScore: 0.0, RiskLevel: model.RiskVeryLow}

	text := Explain(model.DecisionRequiresReview, model.EligibilityVerdict{}, fraud)
	if !strings.HasPrefix(text, "Your claim requires manual review by our claims team.") {
		t.Errorf("Unexpected opening: %q", text)
	}
	if !strings.Contains(text, "A claims specialist will review your case within 2 business days.") {
		t.Errorf("Missing next steps: %q", text)
	}
	if strings.Contains(text, "Policy Analysis:") {
		t.Errorf("Empty verdict explanation should be omitted: %q", text)
	}
}

func TestExplain_SingleSpaceJoins(t *testing.T) {
	fraud := model.FraudAssessment{FraudScore: 0.4, RiskLevel: model.RiskMedium,
		FraudIndicators: []string{"Round number claim amount"}}
	v := model.EligibilityVerdict{Explanation: "Partially covered."}

	text := Explain(model.DecisionRequiresReview, v, fraud)
	if strings.Contains(text, "  ") {
		t.Errorf("Expected single spaces between sentences: %q", text)
	}
}

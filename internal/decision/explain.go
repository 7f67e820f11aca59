package decision

import (
	"fmt"
	"strings"

	"github.com/insurelab/claimlens/internal/model"
)

// Fraud indicators are mentioned in the explanation only at or above this
// score; below it they would add noise without changing the outcome
const indicatorMentionThreshold = 0.3

const maxExplainedIndicators = 3

// Explain composes the claimant-facing explanation: the decision statement,
// the policy analysis, flagged fraud indicators when relevant, and next steps.
// Sentences are joined with single spaces.
func Explain(decision model.Decision, verdict model.EligibilityVerdict, fraud model.FraudAssessment) string {
	var parts []string

	switch decision {
	case model.DecisionApproved:
		parts = append(parts, "Your claim has been approved for processing.")
	case model.DecisionDenied:
		parts = append(parts, "Your claim has been denied.")
	default:
		parts = append(parts, "Your claim requires manual review by our claims team.")
	}

	if verdict.Explanation != "" {
		parts = append(parts, fmt.Sprintf("Policy Analysis: %s", verdict.Explanation))
	}

	if fraud.FraudScore >= indicatorMentionThreshold {
		parts = append(parts, fmt.Sprintf("Our automated review identified %s risk indicators.", riskPhrase(fraud.RiskLevel)))
		if len(fraud.FraudIndicators) > 0 {
			parts = append(parts, "Specific areas flagged for review:")
			for i, indicator := range fraud.FraudIndicators {
				if i >= maxExplainedIndicators {
					break
				}
				parts = append(parts, fmt.Sprintf("• %s", indicator))
			}
		}
	}

	switch decision {
	case model.DecisionApproved:
		parts = append(parts, "Payment processing will begin within 3-5 business days.")
	case model.DecisionDenied:
		parts = append(parts, "You may appeal this decision by contacting our customer service team.")
	default:
		parts = append(parts, "A claims specialist will review your case within 2 business days.")
	}

	return strings.Join(parts, " ")
}

// riskPhrase renders a risk level for prose ("VERY_HIGH" reads "very high")
func riskPhrase(level model.RiskLevel) string {
	return strings.ReplaceAll(strings.ToLower(string(level)), "_", " ")
}

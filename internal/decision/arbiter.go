package decision

import "github.com/insurelab/claimlens/internal/model"

// Fraud score thresholds used by the arbiter, in precedence order
const (
	denyThreshold   = 0.8 // At or above: deny outright
	reviewThreshold = 0.5 // At or above with an AI approval: force review
	trustThreshold  = 0.3 // Below: mirror the AI verdict
)

// Outcome is the arbitrated result: the final decision and the reason the
// arbiter chose it
type Outcome struct {
	Decision model.Decision
	Reason   string
}

// Arbitrate merges the fraud assessment and the AI eligibility verdict into
// the final decision. Rules apply in strict precedence order; the first match
// wins. Fraud signals can only make the outcome stricter, never more lenient.
func Arbitrate(fraud model.FraudAssessment, verdict model.EligibilityVerdict) Outcome {
	if verdict.Decision == model.DecisionError {
		return Outcome{model.DecisionRequiresReview, "AI analysis failed"}
	}

	if fraud.FraudScore >= denyThreshold {
		return Outcome{model.DecisionDenied, "High fraud risk detected"}
	}

	if fraud.FraudScore >= reviewThreshold && verdict.Decision == model.DecisionApproved {
		return Outcome{model.DecisionRequiresReview, "Medium fraud risk requires manual review"}
	}

	if fraud.RiskLevel == model.RiskVeryHigh {
		return Outcome{model.DecisionDenied, "Very high fraud risk"}
	}

	if fraud.FraudScore < trustThreshold {
		switch verdict.Decision {
		case model.DecisionApproved:
			return Outcome{model.DecisionApproved, "AI approved with low fraud risk"}
		case model.DecisionDenied:
			return Outcome{model.DecisionDenied, "AI denied based on policy analysis"}
		default:
			return Outcome{model.DecisionRequiresReview, "AI requires review"}
		}
	}

	return Outcome{model.DecisionRequiresReview, "Uncertain case requires manual review"}
}

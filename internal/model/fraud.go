package model

// RiskLevel is a discretized bucket of the continuous fraud score
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "VERY_LOW"  // score < 0.2
	RiskLow      RiskLevel = "LOW"       // 0.2 <= score < 0.4
	RiskMedium   RiskLevel = "MEDIUM"    // 0.4 <= score < 0.6
	RiskHigh     RiskLevel = "HIGH"      // 0.6 <= score < 0.8
	RiskVeryHigh RiskLevel = "VERY_HIGH" // score >= 0.8
	RiskUnknown  RiskLevel = "UNKNOWN"   // Scoring failed; degraded result
)

// RiskLevelForScore maps a fraud score onto its risk bucket
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= 0.8:
		return RiskVeryHigh
	case score >= 0.6:
		return RiskHigh
	case score >= 0.4:
		return RiskMedium
	case score >= 0.2:
		return RiskLow
	default:
		return RiskVeryLow
	}
}

// FraudAssessment is the fraud rule engine's output for one claim.
// Immutable once produced.
type FraudAssessment struct {
	FraudScore      float64       `json:"fraud_score"`      // Normalized score in [0, 1]
	RiskLevel       RiskLevel     `json:"risk_level"`       // Bucket derived from the score
	FraudIndicators []string      `json:"fraud_indicators"` // Triggered rules, in detection order
	FeatureSnapshot FeatureVector `json:"feature_analysis"` // Copy of the scored features, kept for audit
	ModelVersion    string        `json:"model_version"`    // Scoring model identifier
}

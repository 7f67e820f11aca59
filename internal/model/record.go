package model

import "time"

// ProcessingDetails is the audit bag attached to every decision record
type ProcessingDetails struct {
	EligibilityDecision Decision      `json:"eligibility_decision"`       // The AI verdict before arbitration
	DecisionReason      string        `json:"decision_reason"`            // Why the arbiter chose the final decision
	FraudModelVersion   string        `json:"fraud_analysis_version"`     // Fraud scoring model identifier
	ProcessedAt         time.Time     `json:"processed_at"`               // When processing finished
	FeatureSnapshot     FeatureVector `json:"feature_analysis,omitempty"` // Features used for fraud scoring
	Error               string        `json:"error,omitempty"`            // Set when the pipeline degraded to ERROR
}

// ClaimDecisionRecord is the final artifact of one processing run. A fresh
// record with a fresh claim ID is created on every run, including
// reprocessing; prior records are never mutated.
type ClaimDecisionRecord struct {
	ClaimID           string            `json:"claim_id"`          // Generated unique identifier
	Input             ClaimInput        `json:"input"`             // The claim as submitted
	Decision          Decision          `json:"decision"`          // Final arbitrated decision
	Explanation       string            `json:"explanation"`       // Composed human-readable explanation
	FraudScore        float64           `json:"fraud_score"`
	FraudRiskLevel    RiskLevel         `json:"fraud_risk_level"`
	FraudIndicators   []string          `json:"fraud_indicators"`
	PolicyReferences  []PolicyReference `json:"policy_references"`
	AIConfidence      float64           `json:"ai_confidence"`
	ProcessingDetails ProcessingDetails `json:"processing_details"`
}

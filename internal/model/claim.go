package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Decision is the outcome of claim processing, used for both the AI
// eligibility verdict and the final arbitrated decision
type Decision string

const (
	DecisionApproved       Decision = "APPROVED"        // Claim is covered and clears fraud screening
	DecisionDenied         Decision = "DENIED"          // Claim is not covered or fraud risk is too high
	DecisionRequiresReview Decision = "REQUIRES_REVIEW" // Needs a human claims specialist
	DecisionError          Decision = "ERROR"           // Processing failed; non-fatal, surfaced in the record
)

// Valid reports whether d is one of the known decision values
func (d Decision) Valid() bool {
	switch d {
	case DecisionApproved, DecisionDenied, DecisionRequiresReview, DecisionError:
		return true
	}
	return false
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeMedical  ClaimType = "medical"
	ClaimTypeDental   ClaimType = "dental"
	ClaimTypeVision   ClaimType = "vision"
	ClaimTypeAccident ClaimType = "accident"
	ClaimTypeProperty ClaimType = "property"
	ClaimTypeOther    ClaimType = "other"
)

// Claim amount bounds enforced before the decision pipeline runs
var (
	maxClaimAmount = decimal.NewFromInt(1_000_000)
	minClaimAmount = decimal.Zero
)

// ClaimInput is the immutable caller-supplied claim. It is validated once at
// the boundary and never mutated by the pipeline.
type ClaimInput struct {
	ClaimType    string  `json:"claim_type"`            // medical, dental, vision, accident, property, other
	Amount       float64 `json:"amount"`                // Claim amount in dollars
	Description  string  `json:"description"`           // Free-text description of the incident or service
	IncidentDate string  `json:"incident_date"`         // Date of incident or service (YYYY-MM-DD)
	DocumentID   string  `json:"document_id,omitempty"` // Optional policy document to check against
}

// Validate enforces the caller-side gate: positive amount, the $1M cap, and a
// minimally useful description. The decision core assumes these hold.
func (c ClaimInput) Validate() error {
	amount := decimal.NewFromFloat(c.Amount)
	if amount.LessThanOrEqual(minClaimAmount) {
		return fmt.Errorf("claim amount must be greater than 0")
	}
	if amount.GreaterThan(maxClaimAmount) {
		return fmt.Errorf("claim amount exceeds maximum limit of $1,000,000")
	}
	if len(strings.TrimSpace(c.Description)) < 10 {
		return fmt.Errorf("description must be at least 10 characters long")
	}
	return nil
}

// FeatureVector is the fixed feature set derived from one claim. It is always
// fully populated: incident date parse failures fall back to the documented
// defaults instead of propagating.
type FeatureVector struct {
	Amount            float64 `json:"amount"`              // Claim amount in dollars
	DescriptionLength int     `json:"description_length"`  // Characters in the description
	DaysSinceIncident int     `json:"days_since_incident"` // Days between incident and submission, clamped to >= 0
	ClaimHour         int     `json:"claim_hour"`          // Hour of submission (0-23)
	WeekendClaim      bool    `json:"weekend_claim"`       // Submitted on Saturday or Sunday
	AmountZScore      float64 `json:"amount_zscore"`       // Bucketed amount deviation proxy
}

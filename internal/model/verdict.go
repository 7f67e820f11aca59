package model

// PolicyReference is a retrieved passage of policy text cited in support of a
// verdict
type PolicyReference struct {
	ClauseText     string  `json:"clause_text"`     // Passage text, truncated for display
	ClauseNumber   string  `json:"clause_number"`   // Sequential label ("Reference 1", ...)
	RelevanceScore float64 `json:"relevance_score"` // Retrieval relevance in [0, 1]
}

// EligibilityVerdict is the AI-derived opinion on whether a claim is covered
// under policy terms. Immutable once produced; a failed analysis is itself a
// verdict (DecisionError, or DecisionRequiresReview with zero confidence when
// no policy context was retrievable).
type EligibilityVerdict struct {
	Decision         Decision          `json:"decision"`
	Explanation      string            `json:"explanation"`
	ConfidenceScore  float64           `json:"confidence_score"`          // Model confidence in [0, 1]
	PolicyReferences []PolicyReference `json:"policy_references"`         // Top retrieved passages, in relevance order
	ReasoningSteps   []string          `json:"reasoning_steps,omitempty"` // Optional model reasoning trace
}

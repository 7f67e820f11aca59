package stats

import (
	"context"
	"fmt"
	"math"

	mfstats "github.com/montanaflynn/stats"

	"github.com/insurelab/claimlens/internal/model"
	"github.com/insurelab/claimlens/internal/store"
)

// DecisionStats summarizes processed claims sharing one decision
type DecisionStats struct {
	Count          int     `json:"count"`
	TotalAmount    float64 `json:"total_amount"`
	MeanAmount     float64 `json:"mean_amount"`
	MedianAmount   float64 `json:"median_amount"`
	MeanFraudScore float64 `json:"mean_fraud_score"`
}

// Summary is the aggregate view over all processed claims
type Summary struct {
	TotalClaims int                              `json:"total_claims"`
	ByDecision  map[model.Decision]DecisionStats `json:"by_decision"`
}

// Summarize computes per-decision claim statistics from the store
func Summarize(ctx context.Context, repo store.ClaimRepository) (*Summary, error) {
	amounts, err := repo.ClaimAmountsByDecision(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading claim amounts: %w", err)
	}
	scores, err := repo.ClaimFraudScoresByDecision(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading fraud scores: %w", err)
	}

	summary := &Summary{ByDecision: make(map[model.Decision]DecisionStats)}
	for decision, values := range amounts {
		ds := DecisionStats{Count: len(values)}
		if len(values) > 0 {
			ds.TotalAmount = round2(sumOf(values))
			ds.MeanAmount = round2(meanOf(values))
			ds.MedianAmount = round2(medianOf(values))
		}
		if scoreValues := scores[decision]; len(scoreValues) > 0 {
			ds.MeanFraudScore = round4(meanOf(scoreValues))
		}
		summary.ByDecision[decision] = ds
		summary.TotalClaims += ds.Count
	}
	return summary, nil
}

// The stats library returns an error only for empty input, which callers
// exclude; the zero fallback keeps the signatures simple.
func sumOf(values []float64) float64 {
	v, err := mfstats.Sum(values)
	if err != nil {
		return 0
	}
	return v
}

func meanOf(values []float64) float64 {
	v, err := mfstats.Mean(values)
	if err != nil {
		return 0
	}
	return v
}

func medianOf(values []float64) float64 {
	v, err := mfstats.Median(values)
	if err != nil {
		return 0
	}
	return v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

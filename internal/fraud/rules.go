package fraud

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/insurelab/claimlens/internal/model"
)

// ModelVersion identifies the scoring model recorded on every assessment
const ModelVersion = "1.0_rule_based"

// suspiciousPhrases are description fragments that historically correlate
// with fraudulent claims. Matched case-insensitively, one indicator each.
var suspiciousPhrases = []string{
	"total loss",
	"completely destroyed",
	"no witnesses",
	"dark road",
	"no camera",
}

// Noise returns a score perturbation representing model uncertainty. The
// production source draws uniformly from [-0.1, 0.1]; tests pin it to zero.
type Noise func() float64

// UniformNoise draws from [-0.1, 0.1) using the given source
func UniformNoise(rng *rand.Rand) Noise {
	return func() float64 {
		return rng.Float64()*0.2 - 0.1
	}
}

// ZeroNoise disables the perturbation for deterministic scoring
func ZeroNoise() float64 { return 0 }

// Engine applies deterministic fraud rules to a claim and its features
type Engine struct {
	noise Noise
}

// NewEngine creates a rule engine with the given noise source. Pass ZeroNoise
// for deterministic scoring.
func NewEngine(noise Noise) *Engine {
	if noise == nil {
		noise = ZeroNoise
	}
	return &Engine{noise: noise}
}

// Score evaluates every fraud rule against the claim, producing the indicator
// list in detection order and a normalized score. It never fails: an internal
// panic degrades to score 0, UNKNOWN risk, and a single error indicator.
func (e *Engine) Score(claim model.ClaimInput, features model.FeatureVector) (assessment model.FraudAssessment) {
	defer func() {
		if r := recover(); r != nil {
			assessment = model.FraudAssessment{
				FraudScore:      0,
				RiskLevel:       model.RiskUnknown,
				FraudIndicators: []string{fmt.Sprintf("Analysis error: %v", r)},
				ModelVersion:    "error",
			}
		}
	}()

	indicators := e.indicators(claim, features)

	// One point per triggered rule, normalized against the rule budget, then
	// perturbed to reflect model uncertainty.
	base := float64(len(indicators)) / 10.0
	score := clamp01(base + e.noise())

	return model.FraudAssessment{
		FraudScore:      round4(score),
		RiskLevel:       model.RiskLevelForScore(score),
		FraudIndicators: indicators,
		FeatureSnapshot: features,
		ModelVersion:    ModelVersion,
	}
}

// indicators runs each rule independently, appending to the list in a fixed
// detection order
func (e *Engine) indicators(claim model.ClaimInput, features model.FeatureVector) []string {
	var indicators []string
	amount := features.Amount
	description := strings.ToLower(claim.Description)

	if amount > 50000 {
		indicators = append(indicators, "Very high claim amount")
	} else if amount > 20000 {
		indicators = append(indicators, "High claim amount")
	}

	if features.DaysSinceIncident == 0 {
		indicators = append(indicators, "Claim submitted same day as incident")
	}
	if features.DaysSinceIncident > 365 {
		indicators = append(indicators, "Claim submitted more than 1 year after incident")
	}

	for _, phrase := range suspiciousPhrases {
		if strings.Contains(description, phrase) {
			indicators = append(indicators, "Suspicious keyword: "+phrase)
		}
	}

	if features.DescriptionLength < 20 {
		indicators = append(indicators, "Very brief description")
	} else if features.DescriptionLength > 1000 {
		indicators = append(indicators, "Unusually detailed description")
	}

	if features.WeekendClaim {
		indicators = append(indicators, "Weekend claim submission")
	}
	if features.ClaimHour < 6 || features.ClaimHour > 22 {
		indicators = append(indicators, "Off-hours claim submission")
	}

	if amount > 0 && math.Mod(amount, 1000) == 0 {
		indicators = append(indicators, "Round number claim amount")
	}

	return indicators
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

package fraud

import (
	"time"

	"github.com/insurelab/claimlens/internal/model"
)

// Feature defaults applied when the incident date cannot be parsed
const (
	defaultDaysSinceIncident = 0
	defaultClaimHour         = 12
)

// Features derives the fixed feature set from one claim. It is a pure
// function of the claim and the supplied submission time, and it never fails:
// an unparseable incident date yields the documented defaults.
func Features(claim model.ClaimInput, now time.Time) model.FeatureVector {
	features := model.FeatureVector{
		Amount:            claim.Amount,
		DescriptionLength: len(claim.Description),
		DaysSinceIncident: defaultDaysSinceIncident,
		ClaimHour:         defaultClaimHour,
		WeekendClaim:      false,
		AmountZScore:      amountZScore(claim.Amount),
	}

	incident, err := time.ParseInLocation("2006-01-02", claim.IncidentDate, now.Location())
	if err != nil {
		return features
	}

	days := int(now.Sub(incident).Hours() / 24)
	if days < 0 {
		days = 0
	}
	features.DaysSinceIncident = days
	features.ClaimHour = now.Hour()
	features.WeekendClaim = now.Weekday() == time.Saturday || now.Weekday() == time.Sunday

	return features
}

// amountZScore buckets the claim amount into a rough deviation proxy. A real
// z-score would need historical claim data.
func amountZScore(amount float64) float64 {
	switch {
	case amount > 10000:
		return 2.0
	case amount > 5000:
		return 1.0
	case amount < 100:
		return -1.0
	default:
		return 0.0
	}
}

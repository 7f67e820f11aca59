package eligibility

import (
	"fmt"
	"strings"

	"github.com/insurelab/claimlens/internal/model"
)

// queryVocabulary is the fixed list of terms mined from claim descriptions
// when building the retrieval query. Order matters: matches are appended in
// vocabulary order, not description order.
var queryVocabulary = []string{
	"surgery", "emergency", "hospital", "doctor", "treatment",
	"medication", "therapy", "diagnostic", "procedure", "consultation",
	"accident", "injury", "illness", "condition", "visit",
}

const maxQueryKeywords = 5

// BuildQuery derives the policy retrieval query from a claim: the claim type
// plus the standard coverage facets, then up to five vocabulary keywords found
// in the description.
func BuildQuery(claim model.ClaimInput) string {
	parts := []string{
		fmt.Sprintf("%s coverage", claim.ClaimType),
		"deductible",
		"exclusions",
		"limits",
	}

	description := strings.ToLower(claim.Description)
	found := 0
	for _, keyword := range queryVocabulary {
		if found >= maxQueryKeywords {
			break
		}
		if strings.Contains(description, keyword) {
			parts = append(parts, keyword)
			found++
		}
	}

	return strings.Join(parts, " ")
}

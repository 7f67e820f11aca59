package eligibility

import (
	"context"
	"fmt"
	"strings"

	"github.com/insurelab/claimlens/internal/llm"
	"github.com/insurelab/claimlens/internal/model"
	"github.com/insurelab/claimlens/internal/retrieval"
)

const (
	// Low temperature: the verdict feeds a compliance-relevant decision
	analysisTemperature = 0.1

	maxPolicyReferences = 3
	referenceTextLimit  = 300

	noContextExplanation = "Unable to find relevant policy information for this claim. Manual review required."
)

const systemPrompt = `You are an expert insurance claims analyst. Evaluate whether the claim is eligible under the policy excerpts provided. Base your judgment only on the policy text. Respond with a JSON object: {"decision": "APPROVED"|"DENIED"|"REQUIRES_REVIEW", "confidence": 0.0-1.0, "explanation": "...", "reasoning": ["step", ...]}.`

// Analyzer produces policy eligibility verdicts for claims by retrieving
// relevant policy text and asking a text-generation provider to evaluate the
// claim against it.
type Analyzer struct {
	provider   llm.Provider
	retriever  retrieval.ContextProvider
	maxContext int // Character budget for retrieved policy text
}

// NewAnalyzer creates an eligibility analyzer
func NewAnalyzer(provider llm.Provider, retriever retrieval.ContextProvider, maxContext int) *Analyzer {
	if maxContext <= 0 {
		maxContext = 3000
	}
	return &Analyzer{provider: provider, retriever: retriever, maxContext: maxContext}
}

// Analyze evaluates a claim against policy documents. It always returns a
// verdict: missing context yields REQUIRES_REVIEW with zero confidence, and
// retrieval or provider failures yield DecisionError rather than an error.
func (a *Analyzer) Analyze(ctx context.Context, claim model.ClaimInput) model.EligibilityVerdict {
	query := BuildQuery(claim)

	contextText, passages, err := a.retriever.Retrieve(ctx, query, claim.DocumentID, a.maxContext)
	if err != nil {
		return errorVerdict(err)
	}

	if strings.TrimSpace(contextText) == "" {
		return model.EligibilityVerdict{
			Decision:         model.DecisionRequiresReview,
			Explanation:      noContextExplanation,
			ConfidenceScore:  0,
			PolicyReferences: []model.PolicyReference{},
		}
	}

	if a.provider == nil {
		return errorVerdict(fmt.Errorf("no text-generation provider configured"))
	}

	resp, err := a.provider.Generate(ctx, llm.GenerateRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(claim, contextText),
		Temperature: analysisTemperature,
	})
	if err != nil {
		return errorVerdict(err)
	}

	parsed := ParseResponse(resp.Text)
	return model.EligibilityVerdict{
		Decision:         parsed.Decision,
		Explanation:      parsed.Explanation,
		ConfidenceScore:  parsed.Confidence,
		PolicyReferences: policyReferences(passages),
		ReasoningSteps:   parsed.ReasoningSteps,
	}
}

func buildPrompt(claim model.ClaimInput, contextText string) string {
	var b strings.Builder
	b.WriteString("Claim details:\n")
	fmt.Fprintf(&b, "- Type: %s\n", claim.ClaimType)
	fmt.Fprintf(&b, "- Amount: $%.2f\n", claim.Amount)
	fmt.Fprintf(&b, "- Incident date: %s\n", claim.IncidentDate)
	fmt.Fprintf(&b, "- Description: %s\n", claim.Description)
	b.WriteString("\nRelevant policy excerpts:\n")
	b.WriteString(contextText)
	b.WriteString("\n\nEvaluate the claim and respond with the JSON object described above.")
	return b.String()
}

// policyReferences converts the top retrieved passages into citation records,
// truncated for display
func policyReferences(passages []model.Passage) []model.PolicyReference {
	refs := make([]model.PolicyReference, 0, maxPolicyReferences)
	for i, passage := range passages {
		if i >= maxPolicyReferences {
			break
		}
		text := passage.Content
		if len(text) > referenceTextLimit {
			text = truncate(text, referenceTextLimit) + "..."
		}
		refs = append(refs, model.PolicyReference{
			ClauseText:     text,
			ClauseNumber:   fmt.Sprintf("Reference %d", i+1),
			RelevanceScore: passage.RelevanceScore,
		})
	}
	return refs
}

func errorVerdict(err error) model.EligibilityVerdict {
	return model.EligibilityVerdict{
		Decision:         model.DecisionError,
		Explanation:      fmt.Sprintf("Analysis failed due to technical error: %v", err),
		ConfidenceScore:  0,
		PolicyReferences: []model.PolicyReference{},
	}
}

package eligibility

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/insurelab/claimlens/internal/llm"
	"github.com/insurelab/claimlens/internal/model"
)

type fakeRetriever struct {
	contextText string
	passages    []model.Passage
	err         error
	lastQuery   string
	lastDocID   string
}

func (f *fakeRetriever) Retrieve(_ context.Context, query, documentID string, _ int) (string, []model.Passage, error) {
	f.lastQuery = query
	f.lastDocID = documentID
	return f.contextText, f.passages, f.err
}

type fakeProvider struct {
	response string
	err      error
	lastReq  llm.GenerateRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.response, Model: "fake-model"}, nil
}

func (f *fakeProvider) IsAvailable(_ context.Context) bool { return true }

func testClaim() model.ClaimInput {
	return model.ClaimInput{
		ClaimType:    "medical",
		Amount:       1200,
		Description:  "Emergency room treatment after an accident",
		IncidentDate: "2025-06-10",
		DocumentID:   "doc-1",
	}
}

func TestAnalyzer_NoContextRequiresReview(t *testing.T) {
	analyzer := NewAnalyzer(&fakeProvider{}, &fakeRetriever{}, 3000)

	verdict := analyzer.Analyze(context.Background(), testClaim())
	if verdict.Decision != model.DecisionRequiresReview {
		t.Errorf("Expected REQUIRES_REVIEW, got %s", verdict.Decision)
	}
	if verdict.ConfidenceScore != 0 {
		t.Errorf("Expected zero confidence, got %f", verdict.ConfidenceScore)
	}
	if verdict.Explanation != noContextExplanation {
		t.Errorf("Unexpected explanation: %q", verdict.Explanation)
	}
	if len(verdict.PolicyReferences) != 0 {
		t.Errorf("Expected no references, got %d", len(verdict.PolicyReferences))
	}
}

func TestAnalyzer_RetrievalErrorYieldsErrorVerdict(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("index offline")}
	analyzer := NewAnalyzer(&fakeProvider{}, retriever, 3000)

	verdict := analyzer.Analyze(context.Background(), testClaim())
	if verdict.Decision != model.DecisionError {
		t.Errorf("Expected ERROR, got %s", verdict.Decision)
	}
	if !strings.Contains(verdict.Explanation, "index offline") {
		t.Errorf("Expected cause in explanation, got %q", verdict.Explanation)
	}
}

func TestAnalyzer_ProviderErrorYieldsErrorVerdict(t *testing.T) {
	retriever := &fakeRetriever{contextText: "Emergency treatment is covered."}
	provider := &fakeProvider{err: errors.New("rate limited")}
	analyzer := NewAnalyzer(provider, retriever, 3000)

	verdict := analyzer.Analyze(context.Background(), testClaim())
	if verdict.Decision != model.DecisionError {
		t.Errorf("Expected ERROR, got %s", verdict.Decision)
	}
	if verdict.ConfidenceScore != 0 {
		t.Errorf("Expected zero confidence, got %f", verdict.ConfidenceScore)
	}
}

func TestAnalyzer_SuccessfulAnalysis(t *testing.T) {
	longClause := strings.Repeat("Coverage applies to emergency treatment. ", 12)
	retriever := &fakeRetriever{
		contextText: "Emergency treatment is covered subject to the deductible.",
		passages: []model.Passage{
			{Content: longClause, RelevanceScore: 0.9},
			{Content: "Deductible is $500 per year.", RelevanceScore: 0.7},
			{Content: "Exclusions: cosmetic procedures.", RelevanceScore: 0.5},
			{Content: "Fourth passage should be dropped.", RelevanceScore: 0.4},
		},
	}
	provider := &fakeProvider{
		response: `{"decision": "APPROVED", "confidence": 0.88, "explanation": "Emergency care is covered."}`,
	}
	analyzer := NewAnalyzer(provider, retriever, 3000)

	verdict := analyzer.Analyze(context.Background(), testClaim())
	if verdict.Decision != model.DecisionApproved {
		t.Fatalf("Expected APPROVED, got %s", verdict.Decision)
	}
	if verdict.ConfidenceScore != 0.88 {
		t.Errorf("Expected confidence 0.88, got %f", verdict.ConfidenceScore)
	}

	if len(verdict.PolicyReferences) != 3 {
		t.Fatalf("Expected 3 references, got %d", len(verdict.PolicyReferences))
	}
	if verdict.PolicyReferences[0].ClauseNumber != "Reference 1" {
		t.Errorf("Unexpected clause number: %q", verdict.PolicyReferences[0].ClauseNumber)
	}
	first := verdict.PolicyReferences[0].ClauseText
	if len(first) != 303 || !strings.HasSuffix(first, "...") {
		t.Errorf("Expected first reference truncated to 300 chars plus ellipsis, got %d chars", len(first))
	}

	if provider.lastReq.Temperature != 0.1 {
		t.Errorf("Expected temperature 0.1, got %f", provider.lastReq.Temperature)
	}
	if !strings.Contains(provider.lastReq.Prompt, "Emergency treatment is covered subject to the deductible.") {
		t.Error("Expected retrieved context in the prompt")
	}
	if retriever.lastDocID != "doc-1" {
		t.Errorf("Expected retrieval scoped to doc-1, got %q", retriever.lastDocID)
	}
	if !strings.Contains(retriever.lastQuery, "medical coverage") {
		t.Errorf("Expected claim-type query, got %q", retriever.lastQuery)
	}
}

func TestAnalyzer_ReferenceTruncationKeepsValidUTF8(t *testing.T) {
	// Byte 300 of the clause lands inside a two-byte rune
	retriever := &fakeRetriever{
		contextText: "Coverage text.",
		passages: []model.Passage{
			{Content: strings.Repeat("a", 299) + strings.Repeat("ü", 20), RelevanceScore: 0.9},
		},
	}
	provider := &fakeProvider{
		response: `{"decision": "APPROVED", "confidence": 0.9, "explanation": "Covered."}`,
	}
	analyzer := NewAnalyzer(provider, retriever, 3000)

	verdict := analyzer.Analyze(context.Background(), testClaim())
	if len(verdict.PolicyReferences) != 1 {
		t.Fatalf("Expected 1 reference, got %d", len(verdict.PolicyReferences))
	}
	clause := verdict.PolicyReferences[0].ClauseText
	if !utf8.ValidString(clause) {
		t.Error("Expected truncated clause to remain valid UTF-8")
	}
	if !strings.HasSuffix(clause, "...") || len(clause) != 302 {
		t.Errorf("Expected cut at the rune boundary (299 bytes plus ellipsis), got %d chars", len(clause))
	}
}

func TestAnalyzer_UnstructuredResponseStillDecides(t *testing.T) {
	retriever := &fakeRetriever{contextText: "Policy text."}
	provider := &fakeProvider{response: "Based on the excerpts this claim should be denied."}
	analyzer := NewAnalyzer(provider, retriever, 3000)

	verdict := analyzer.Analyze(context.Background(), testClaim())
	if verdict.Decision != model.DecisionDenied {
		t.Errorf("Expected DENIED via keyword fallback, got %s", verdict.Decision)
	}
	if verdict.ConfidenceScore != 0.6 {
		t.Errorf("Expected fallback confidence 0.6, got %f", verdict.ConfidenceScore)
	}
}

package qa

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/insurelab/claimlens/internal/llm"
	"github.com/insurelab/claimlens/internal/model"
	"github.com/insurelab/claimlens/internal/retrieval"
)

const (
	answerTemperature = 0.3
	sourceTextLimit   = 500

	noContextAnswer = "I couldn't find relevant information in the policy documents to answer your question."
)

const answerSystemPrompt = `You are a helpful insurance policy assistant. Answer the question using only the policy excerpts provided. If the excerpts do not contain the answer, say so plainly.`

// Source is one policy passage an answer was grounded on
type Source struct {
	Section        string  `json:"section"`         // Sequential label ("Section 1", ...)
	Text           string  `json:"text"`            // Passage text, truncated for display
	RelevanceScore float64 `json:"relevance_score"`
}

// Answer is the response to one policy question
type Answer struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Sources    []Source `json:"sources"`
}

// Service answers free-form policy questions against ingested documents
type Service struct {
	provider   llm.Provider
	retriever  retrieval.ContextProvider
	maxContext int
}

// NewService creates a policy Q&A service
func NewService(provider llm.Provider, retriever retrieval.ContextProvider, maxContext int) *Service {
	if maxContext <= 0 {
		maxContext = 3000
	}
	return &Service{provider: provider, retriever: retriever, maxContext: maxContext}
}

// Ask answers a policy question. Missing context yields the standard "not
// found" answer with zero confidence rather than an error.
func (s *Service) Ask(ctx context.Context, question, documentID string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question must not be empty")
	}

	contextText, passages, err := s.retriever.Retrieve(ctx, question, documentID, s.maxContext)
	if err != nil {
		return nil, fmt.Errorf("retrieving policy context: %w", err)
	}

	if strings.TrimSpace(contextText) == "" {
		return &Answer{
			Question:   question,
			Answer:     noContextAnswer,
			Confidence: 0,
			Sources:    []Source{},
		}, nil
	}

	if s.provider == nil {
		return nil, fmt.Errorf("no text-generation provider configured")
	}

	prompt := fmt.Sprintf("Policy excerpts:\n%s\n\nQuestion: %s", contextText, question)
	resp, err := s.provider.Generate(ctx, llm.GenerateRequest{
		System:      answerSystemPrompt,
		Prompt:      prompt,
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &Answer{
		Question:   question,
		Answer:     strings.TrimSpace(resp.Text),
		Confidence: 0.85,
		Sources:    sources(passages),
	}, nil
}

// Search returns raw passages matching a query, bypassing generation
func (s *Service) Search(ctx context.Context, query, documentID string) ([]model.Passage, error) {
	_, passages, err := s.retriever.Retrieve(ctx, query, documentID, s.maxContext)
	if err != nil {
		return nil, fmt.Errorf("searching policy documents: %w", err)
	}
	return passages, nil
}

func sources(passages []model.Passage) []Source {
	out := make([]Source, 0, len(passages))
	for i, passage := range passages {
		text := passage.Content
		if len(text) > sourceTextLimit {
			text = truncate(text, sourceTextLimit) + "..."
		}
		out = append(out, Source{
			Section:        fmt.Sprintf("Section %d", i+1),
			Text:           text,
			RelevanceScore: passage.RelevanceScore,
		})
	}
	return out
}

// truncate caps s at limit bytes, backing off to the previous rune boundary
// so clause text never yields invalid UTF-8
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

package store

import (
	"context"
	"sync"

	"github.com/insurelab/claimlens/internal/model"
)

// MemoryStore is the in-process store used when no database is configured.
// It implements both ClaimRepository and DocumentRepository.
type MemoryStore struct {
	mu         sync.RWMutex
	claims     map[string]model.ClaimDecisionRecord
	claimOrder []string // Insertion order; listings return newest first
	statuses   map[string]claimStatus
	documents  map[string]model.Document
	docOrder   []string
}

type claimStatus struct {
	status string
	notes  string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		claims:    make(map[string]model.ClaimDecisionRecord),
		statuses:  make(map[string]claimStatus),
		documents: make(map[string]model.Document),
	}
}

func (m *MemoryStore) SaveClaim(_ context.Context, record model.ClaimDecisionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.claims[record.ClaimID]; !exists {
		m.claimOrder = append(m.claimOrder, record.ClaimID)
	}
	m.claims[record.ClaimID] = record
	return nil
}

func (m *MemoryStore) GetClaim(_ context.Context, claimID string) (*model.ClaimDecisionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.claims[claimID]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (m *MemoryStore) ListClaims(_ context.Context, filter ClaimFilter) ([]model.ClaimDecisionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []model.ClaimDecisionRecord
	for i := len(m.claimOrder) - 1; i >= 0; i-- {
		record := m.claims[m.claimOrder[i]]
		if filter.Decision != "" && record.Decision != filter.Decision {
			continue
		}
		matched = append(matched, record)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (m *MemoryStore) UpdateClaimStatus(_ context.Context, claimID, status, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.claims[claimID]; !ok {
		return ErrNotFound
	}
	m.statuses[claimID] = claimStatus{status: status, notes: notes}
	return nil
}

// ClaimStatus returns the review status set on a claim, if any
func (m *MemoryStore) ClaimStatus(claimID string) (status, notes string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.statuses[claimID]
	return s.status, s.notes, ok
}

func (m *MemoryStore) ClaimAmountsByDecision(_ context.Context) (map[model.Decision][]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.Decision][]float64)
	for _, id := range m.claimOrder {
		record := m.claims[id]
		out[record.Decision] = append(out[record.Decision], record.Input.Amount)
	}
	return out, nil
}

func (m *MemoryStore) ClaimFraudScoresByDecision(_ context.Context) (map[model.Decision][]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.Decision][]float64)
	for _, id := range m.claimOrder {
		record := m.claims[id]
		out[record.Decision] = append(out[record.Decision], record.FraudScore)
	}
	return out, nil
}

func (m *MemoryStore) SaveDocument(_ context.Context, doc model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.documents[doc.DocumentID]; !exists {
		m.docOrder = append(m.docOrder, doc.DocumentID)
	}
	m.documents[doc.DocumentID] = doc
	return nil
}

func (m *MemoryStore) GetDocument(_ context.Context, documentID string) (*model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[documentID]
	if !ok {
		return nil, ErrNotFound
	}
	return &doc, nil
}

func (m *MemoryStore) ListDocuments(_ context.Context, limit, offset int) ([]model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Document
	for i := len(m.docOrder) - 1; i >= 0; i-- {
		out = append(out, m.documents[m.docOrder[i]])
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) DeleteDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[documentID]; !ok {
		return ErrNotFound
	}
	delete(m.documents, documentID)
	for i, id := range m.docOrder {
		if id == documentID {
			m.docOrder = append(m.docOrder[:i], m.docOrder[i+1:]...)
			break
		}
	}
	return nil
}

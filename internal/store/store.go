package store

import (
	"context"
	"errors"

	"github.com/insurelab/claimlens/internal/model"
)

// ErrNotFound is returned when a claim or document does not exist
var ErrNotFound = errors.New("not found")

// ClaimFilter narrows claim listings
type ClaimFilter struct {
	Decision model.Decision // Zero value means no filter
	Limit    int
	Offset   int
}

// ClaimRepository persists finished claim decision records. Persistence
// failures are logged by callers and never block returning the decision.
type ClaimRepository interface {
	SaveClaim(ctx context.Context, record model.ClaimDecisionRecord) error
	GetClaim(ctx context.Context, claimID string) (*model.ClaimDecisionRecord, error)
	ListClaims(ctx context.Context, filter ClaimFilter) ([]model.ClaimDecisionRecord, error)
	UpdateClaimStatus(ctx context.Context, claimID, status, notes string) error
	ClaimAmountsByDecision(ctx context.Context) (map[model.Decision][]float64, error)
	ClaimFraudScoresByDecision(ctx context.Context) (map[model.Decision][]float64, error)
}

// DocumentRepository persists policy document metadata
type DocumentRepository interface {
	SaveDocument(ctx context.Context, doc model.Document) error
	GetDocument(ctx context.Context, documentID string) (*model.Document, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]model.Document, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

package claims

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/insurelab/claimlens/internal/decision"
	"github.com/insurelab/claimlens/internal/fraud"
	"github.com/insurelab/claimlens/internal/model"
	"github.com/insurelab/claimlens/internal/notify"
	"github.com/insurelab/claimlens/internal/store"
)

// EligibilityAnalyzer is the policy analysis capability the orchestrator
// depends on. It always returns a verdict; failures are verdict states.
type EligibilityAnalyzer interface {
	Analyze(ctx context.Context, claim model.ClaimInput) model.EligibilityVerdict
}

// Service orchestrates one claim through the full pipeline: fraud scoring and
// eligibility analysis run concurrently, the arbiter merges them, and the
// finished record is persisted and notified on a best-effort basis.
type Service struct {
	engine   *fraud.Engine
	analyzer EligibilityAnalyzer
	repo     store.ClaimRepository // nil disables persistence
	notifier notify.Notifier       // nil disables notifications

	now func() time.Time // Injectable clock for tests
}

// NewService creates the claim processing service
func NewService(engine *fraud.Engine, analyzer EligibilityAnalyzer, repo store.ClaimRepository, notifier notify.Notifier) *Service {
	return &Service{
		engine:   engine,
		analyzer: analyzer,
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Process runs the full decision pipeline for one validated claim. It never
// returns an error for pipeline failures: anything unexpected degrades to an
// ERROR record so the caller always receives a decision.
func (s *Service) Process(ctx context.Context, claim model.ClaimInput, email, phone string) (record model.ClaimDecisionRecord) {
	claimID := uuid.New().String()

	defer func() {
		if r := recover(); r != nil {
			record = s.errorRecord(claimID, claim, fmt.Errorf("claim processing panic: %v", r))
		}
		s.finish(ctx, record, email, phone)
	}()

	// Fraud scoring and eligibility analysis share no state; run them
	// concurrently. Each goroutine recovers its own panics: a recover
	// deferred here cannot reach them, and an uncaught panic in a child
	// goroutine would kill the process.
	var (
		wg          sync.WaitGroup
		assessment  model.FraudAssessment
		verdict     model.EligibilityVerdict
		fraudPanic  error
		policyPanic error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				fraudPanic = fmt.Errorf("fraud scoring panic: %v", r)
			}
		}()
		features := fraud.Features(claim, s.now())
		assessment = s.engine.Score(claim, features)
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				policyPanic = fmt.Errorf("eligibility analysis panic: %v", r)
			}
		}()
		verdict = s.analyzer.Analyze(ctx, claim)
	}()
	wg.Wait()

	if fraudPanic != nil {
		return s.errorRecord(claimID, claim, fraudPanic)
	}
	if policyPanic != nil {
		return s.errorRecord(claimID, claim, policyPanic)
	}

	outcome := decision.Arbitrate(assessment, verdict)
	explanation := decision.Explain(outcome.Decision, verdict, assessment)

	record = model.ClaimDecisionRecord{
		ClaimID:          claimID,
		Input:            claim,
		Decision:         outcome.Decision,
		Explanation:      explanation,
		FraudScore:       assessment.FraudScore,
		FraudRiskLevel:   assessment.RiskLevel,
		FraudIndicators:  assessment.FraudIndicators,
		PolicyReferences: verdict.PolicyReferences,
		AIConfidence:     verdict.ConfidenceScore,
		ProcessingDetails: model.ProcessingDetails{
			EligibilityDecision: verdict.Decision,
			DecisionReason:      outcome.Reason,
			FraudModelVersion:   assessment.ModelVersion,
			ProcessedAt:         s.now().UTC(),
			FeatureSnapshot:     assessment.FeatureSnapshot,
		},
	}
	return record
}

// Reprocess runs the pipeline again for a stored claim's input. A fresh claim
// ID is assigned; the prior record is never mutated.
func (s *Service) Reprocess(ctx context.Context, claimID, email, phone string) (model.ClaimDecisionRecord, error) {
	if s.repo == nil {
		return model.ClaimDecisionRecord{}, fmt.Errorf("reprocessing requires a claim store")
	}
	prior, err := s.repo.GetClaim(ctx, claimID)
	if err != nil {
		return model.ClaimDecisionRecord{}, fmt.Errorf("loading claim %s: %w", claimID, err)
	}
	return s.Process(ctx, prior.Input, email, phone), nil
}

// finish persists and notifies. Both are best-effort: failures are logged and
// never surfaced to the caller.
func (s *Service) finish(ctx context.Context, record model.ClaimDecisionRecord, email, phone string) {
	if s.repo != nil {
		if err := s.repo.SaveClaim(ctx, record); err != nil {
			log.Printf("claims: saving claim %s: %v", record.ClaimID, err)
		}
	}
	if s.notifier != nil && (email != "" || phone != "") {
		if err := s.notifier.ClaimProcessed(ctx, record, email, phone); err != nil {
			log.Printf("claims: notifying for claim %s: %v", record.ClaimID, err)
		}
	}
}

func (s *Service) errorRecord(claimID string, claim model.ClaimInput, cause error) model.ClaimDecisionRecord {
	return model.ClaimDecisionRecord{
		ClaimID:          claimID,
		Input:            claim,
		Decision:         model.DecisionError,
		Explanation:      "An unexpected error occurred while processing your claim. Our team has been notified.",
		FraudRiskLevel:   model.RiskUnknown,
		FraudIndicators:  []string{},
		PolicyReferences: []model.PolicyReference{},
		ProcessingDetails: model.ProcessingDetails{
			EligibilityDecision: model.DecisionError,
			DecisionReason:      "Processing failed",
			ProcessedAt:         s.now().UTC(),
			Error:               cause.Error(),
		},
	}
}

package claims

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/insurelab/claimlens/internal/fraud"
	"github.com/insurelab/claimlens/internal/model"
	"github.com/insurelab/claimlens/internal/notify"
	"github.com/insurelab/claimlens/internal/store"
)

type fakeAnalyzer struct {
	verdict model.EligibilityVerdict
	panics  bool
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ model.ClaimInput) model.EligibilityVerdict {
	if f.panics {
		panic("analyzer blew up")
	}
	return f.verdict
}

type fakeRepo struct {
	saved   []model.ClaimDecisionRecord
	stored  map[string]model.ClaimDecisionRecord
	saveErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stored: map[string]model.ClaimDecisionRecord{}}
}

func (f *fakeRepo) SaveClaim(_ context.Context, record model.ClaimDecisionRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, record)
	f.stored[record.ClaimID] = record
	return nil
}

func (f *fakeRepo) GetClaim(_ context.Context, claimID string) (*model.ClaimDecisionRecord, error) {
	record, ok := f.stored[claimID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &record, nil
}

func (f *fakeRepo) ListClaims(_ context.Context, _ store.ClaimFilter) ([]model.ClaimDecisionRecord, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateClaimStatus(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeRepo) ClaimAmountsByDecision(_ context.Context) (map[model.Decision][]float64, error) {
	return nil, nil
}

func (f *fakeRepo) ClaimFraudScoresByDecision(_ context.Context) (map[model.Decision][]float64, error) {
	return nil, nil
}

type fakeNotifier struct {
	calls []string
	err   error
}

func (f *fakeNotifier) ClaimProcessed(_ context.Context, record model.ClaimDecisionRecord, email, _ string) error {
	f.calls = append(f.calls, email)
	return f.err
}

func cleanClaim() model.ClaimInput {
	return model.ClaimInput{
		ClaimType:    "medical",
		Amount:       850.50,
		Description:  "Routine specialist consultation and diagnostic imaging",
		IncidentDate: "2025-06-05",
	}
}

// newTestService pins the clock to a Tuesday at noon so no time-based fraud
// rule fires for cleanClaim
func newTestService(analyzer EligibilityAnalyzer, repo store.ClaimRepository, notifier notify.Notifier) *Service {
	svc := NewService(fraud.NewEngine(fraud.ZeroNoise), analyzer, repo, notifier)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func approvedVerdict() model.EligibilityVerdict {
	return model.EligibilityVerdict{
		Decision:        model.DecisionApproved,
		Explanation:     "Covered under outpatient provisions.",
		ConfidenceScore: 0.9,
		PolicyReferences: []model.PolicyReference{
			{ClauseText: "Outpatient services are covered.", ClauseNumber: "Reference 1", RelevanceScore: 0.8},
		},
	}
}

func TestService_Process_ApprovedClaim(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeAnalyzer{verdict: approvedVerdict()}, repo, notifier)

	record := svc.Process(context.Background(), cleanClaim(), "user@example.com", "")

	if record.ClaimID == "" {
		t.Fatal("Expected a generated claim ID")
	}
	if record.Decision != model.DecisionApproved {
		t.Errorf("Expected APPROVED, got %s", record.Decision)
	}
	if record.ProcessingDetails.DecisionReason != "AI approved with low fraud risk" {
		t.Errorf("Unexpected reason: %q", record.ProcessingDetails.DecisionReason)
	}
	if record.ProcessingDetails.FraudModelVersion != fraud.ModelVersion {
		t.Errorf("Unexpected model version: %q", record.ProcessingDetails.FraudModelVersion)
	}
	if record.AIConfidence != 0.9 {
		t.Errorf("Expected AI confidence carried, got %f", record.AIConfidence)
	}
	if !strings.Contains(record.Explanation, "Your claim has been approved for processing.") {
		t.Errorf("Unexpected explanation: %q", record.Explanation)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("Expected 1 saved record, got %d", len(repo.saved))
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "user@example.com" {
		t.Errorf("Expected notification to user@example.com, got %v", notifier.calls)
	}
}

func TestService_Process_HighFraudDenies(t *testing.T) {
	svc := NewService(fraud.NewEngine(fraud.ZeroNoise), &fakeAnalyzer{verdict: approvedVerdict()}, nil, nil)
	// Sunday 03:00: weekend and off-hours rules both trigger
	svc.now = func() time.Time { return time.Date(2025, 6, 8, 3, 0, 0, 0, time.UTC) }

	claim := model.ClaimInput{
		ClaimType:    "property",
		Amount:       75000,
		Description:  "Total loss, completely destroyed, no witnesses",
		IncidentDate: "2025-06-08",
	}

	record := svc.Process(context.Background(), claim, "", "")
	if record.Decision != model.DecisionDenied {
		t.Errorf("Expected DENIED for high fraud score, got %s (score %f)", record.Decision, record.FraudScore)
	}
	if record.ProcessingDetails.DecisionReason != "High fraud risk detected" {
		t.Errorf("Unexpected reason: %q", record.ProcessingDetails.DecisionReason)
	}
}

func TestService_Process_AnalyzerPanicDegrades(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(&fakeAnalyzer{panics: true}, repo, nil)

	record := svc.Process(context.Background(), cleanClaim(), "", "")
	if record.Decision != model.DecisionError {
		t.Errorf("Expected ERROR record after panic, got %s", record.Decision)
	}
	if !strings.Contains(record.ProcessingDetails.Error, "analyzer blew up") {
		t.Errorf("Expected the cause recorded in processing details, got %q", record.ProcessingDetails.Error)
	}
	if record.FraudRiskLevel != model.RiskUnknown {
		t.Errorf("Expected UNKNOWN risk on the ERROR record, got %s", record.FraudRiskLevel)
	}
	if len(repo.saved) != 1 {
		t.Errorf("Expected the ERROR record persisted, got %d saves", len(repo.saved))
	}
}

func TestService_Process_SaveFailureDoesNotBlockDecision(t *testing.T) {
	repo := newFakeRepo()
	repo.saveErr = errors.New("database offline")
	svc := newTestService(&fakeAnalyzer{verdict: approvedVerdict()}, repo, nil)

	record := svc.Process(context.Background(), cleanClaim(), "", "")
	if record.Decision != model.DecisionApproved {
		t.Errorf("Expected decision despite save failure, got %s", record.Decision)
	}
}

func TestService_Process_NotifyFailureDoesNotBlockDecision(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("smtp timeout")}
	svc := newTestService(&fakeAnalyzer{verdict: approvedVerdict()}, nil, notifier)

	record := svc.Process(context.Background(), cleanClaim(), "user@example.com", "")
	if record.Decision != model.DecisionApproved {
		t.Errorf("Expected decision despite notify failure, got %s", record.Decision)
	}
}

func TestService_Reprocess_FreshClaimID(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(&fakeAnalyzer{verdict: approvedVerdict()}, repo, nil)

	original := svc.Process(context.Background(), cleanClaim(), "", "")

	reprocessed, err := svc.Reprocess(context.Background(), original.ClaimID, "", "")
	if err != nil {
		t.Fatalf("Reprocess failed: %v", err)
	}
	if reprocessed.ClaimID == original.ClaimID {
		t.Error("Expected a fresh claim ID on reprocessing")
	}
	if reprocessed.Input != original.Input {
		t.Error("Expected the original input carried through reprocessing")
	}
	if len(repo.saved) != 2 {
		t.Errorf("Expected both records persisted, got %d", len(repo.saved))
	}
}

func TestService_Reprocess_UnknownClaim(t *testing.T) {
	svc := newTestService(&fakeAnalyzer{}, newFakeRepo(), nil)

	if _, err := svc.Reprocess(context.Background(), "missing", "", ""); err == nil {
		t.Fatal("Expected an error for an unknown claim")
	}
}

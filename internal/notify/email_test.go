package notify

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/insurelab/claimlens/internal/model"
)

func testRecord() model.ClaimDecisionRecord {
	return model.ClaimDecisionRecord{
		ClaimID:     "claim-123",
		Input:       model.ClaimInput{ClaimType: "medical", Amount: 1200},
		Decision:    model.DecisionApproved,
		Explanation: "Your claim has been approved for processing.",
	}
}

func TestEmailNotifier_SendsMail(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	n := NewEmailNotifier(model.NotifyConfig{
		SMTPServer: "smtp.example.com", SMTPPort: 587,
		SMTPUsername: "claims@example.com", SMTPPassword: "secret",
	})
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	if err := n.ClaimProcessed(context.Background(), testRecord(), "user@example.com", ""); err != nil {
		t.Fatalf("ClaimProcessed failed: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Errorf("Unexpected SMTP addr: %q", gotAddr)
	}
	if gotFrom != "claims@example.com" {
		t.Errorf("Unexpected from: %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "user@example.com" {
		t.Errorf("Unexpected recipients: %v", gotTo)
	}
	body := string(gotMsg)
	if !strings.Contains(body, "Subject: Claim claim-123: APPROVED") {
		t.Errorf("Missing subject line: %q", body)
	}
	if !strings.Contains(body, "Your claim has been approved for processing.") {
		t.Errorf("Missing explanation in body: %q", body)
	}
}

func TestEmailNotifier_NoEmailNoSend(t *testing.T) {
	called := false
	n := NewEmailNotifier(model.NotifyConfig{
		SMTPServer: "smtp.example.com", SMTPUsername: "u", SMTPPassword: "p",
	})
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	if err := n.ClaimProcessed(context.Background(), testRecord(), "", "+15550100"); err != nil {
		t.Fatalf("ClaimProcessed failed: %v", err)
	}
	if called {
		t.Error("Expected no SMTP send without an email address")
	}
}

func TestEmailNotifier_UnconfiguredFallsBackToLog(t *testing.T) {
	n := NewEmailNotifier(model.NotifyConfig{SMTPServer: "smtp.example.com"})

	if err := n.ClaimProcessed(context.Background(), testRecord(), "user@example.com", ""); err != nil {
		t.Fatalf("Expected log fallback, got error: %v", err)
	}
}

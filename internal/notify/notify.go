package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/insurelab/claimlens/internal/model"
)

// Notifier delivers claim decision notifications. Delivery failures are
// logged by callers and never affect the decision itself.
type Notifier interface {
	// ClaimProcessed notifies the claimant of a finished decision. Empty
	// email and phone disable the respective channel.
	ClaimProcessed(ctx context.Context, record model.ClaimDecisionRecord, email, phone string) error
}

// Subject and body rendering shared by the email and log notifiers
func renderSubject(record model.ClaimDecisionRecord) string {
	return fmt.Sprintf("Claim %s: %s", record.ClaimID, record.Decision)
}

func renderBody(record model.ClaimDecisionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear Claimant,\n\n")
	fmt.Fprintf(&b, "Your %s claim for $%.2f has been processed.\n\n", record.Input.ClaimType, record.Input.Amount)
	fmt.Fprintf(&b, "Decision: %s\n\n", record.Decision)
	fmt.Fprintf(&b, "%s\n\n", record.Explanation)
	fmt.Fprintf(&b, "Claim reference: %s\n", record.ClaimID)
	return b.String()
}

// renderSMS is a compact single-line form for the SMS channel
func renderSMS(record model.ClaimDecisionRecord) string {
	return fmt.Sprintf("Claim %s processed: %s. Check your email for details.", record.ClaimID, record.Decision)
}

// LogNotifier writes notifications to the process log. It is the default
// when no SMTP credentials are configured and the SMS channel everywhere;
// there is no SMS gateway integration yet.
type LogNotifier struct{}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) ClaimProcessed(_ context.Context, record model.ClaimDecisionRecord, email, phone string) error {
	if email != "" {
		log.Printf("notify: email to %s: %s", email, renderSubject(record))
	}
	if phone != "" {
		log.Printf("notify: sms to %s: %s", phone, renderSMS(record))
	}
	return nil
}

package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/insurelab/claimlens/internal/model"
)

// EmailNotifier sends decision notifications over SMTP. The SMS channel falls
// back to the log.
type EmailNotifier struct {
	server   string
	port     int
	username string
	password string
	fallback *LogNotifier

	// send is swappable for tests
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier creates an SMTP-backed notifier from config
func NewEmailNotifier(cfg model.NotifyConfig) *EmailNotifier {
	return &EmailNotifier{
		server:   cfg.SMTPServer,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		fallback: NewLogNotifier(),
		send:     smtp.SendMail,
	}
}

// Configured reports whether SMTP credentials are present
func (n *EmailNotifier) Configured() bool {
	return n.server != "" && n.username != "" && n.password != ""
}

func (n *EmailNotifier) ClaimProcessed(ctx context.Context, record model.ClaimDecisionRecord, email, phone string) error {
	if phone != "" {
		if err := n.fallback.ClaimProcessed(ctx, record, "", phone); err != nil {
			return err
		}
	}
	if email == "" {
		return nil
	}
	if !n.Configured() {
		log.Printf("notify: smtp not configured, logging instead")
		return n.fallback.ClaimProcessed(ctx, record, email, "")
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.username, email, renderSubject(record), renderBody(record)))

	addr := fmt.Sprintf("%s:%d", n.server, n.port)
	auth := smtp.PlainAuth("", n.username, n.password, n.server)
	if err := n.send(addr, auth, n.username, []string{email}, msg); err != nil {
		return fmt.Errorf("sending decision email for claim %s: %w", record.ClaimID, err)
	}
	return nil
}

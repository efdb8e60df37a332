package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/camden-git/photosharebackend/config"
)

// Mailer sends transactional email over plain SMTP. When no SMTP host is
// configured it logs the message instead of sending, which keeps local
// development working without a mail server.
type Mailer struct {
	cfg config.Config
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) send(to, subject, body string) error {
	if m.cfg.SMTPHost == "" {
		log.Printf("mailer: SMTP not configured, would send to %s: %s", to, subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.MailFrom,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.MailFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// SendConfirmationEmail sends the account confirmation link for a freshly
// registered (or re-requested) email confirmation token.
func (m *Mailer) SendConfirmationEmail(to, username, token string) error {
	link := fmt.Sprintf("%s/api/auth/confirm-email/%s/", strings.TrimRight(m.cfg.SiteURL, "/"), token)
	body := fmt.Sprintf("Hi %s,\n\nPlease confirm your account by opening the link below:\n\n%s\n", username, link)
	return m.send(to, "Confirm your account", body)
}

// SendPasswordResetEmail sends the password reset link.
func (m *Mailer) SendPasswordResetEmail(to, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s/", strings.TrimRight(m.cfg.ShareBaseURL, "/"), token)
	body := fmt.Sprintf("A password reset was requested for your account.\n\nReset it here:\n\n%s\n\nIf you did not request this, you can ignore this email.\n", link)
	return m.send(to, "Reset your password", body)
}

// SendSelectionNotification tells the album owner's contact that a client
// picked a photo through an access link. Best-effort; callers log failures
// and move on.
func (m *Mailer) SendSelectionNotification(to, albumTitle string, selectionCount int64) error {
	body := fmt.Sprintf("A client selected a photo in album %q.\n\nTotal selections so far: %d\n", albumTitle, selectionCount)
	return m.send(to, fmt.Sprintf("New photo selection in %s", albumTitle), body)
}

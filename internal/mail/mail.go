// Package mail sends transactional email for account verification and
// password resets. Send failures are logged by callers, never fatal.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/scrapperhq/scrapper/internal/config"
)

// Mailer sends messages through an SMTP relay.
type Mailer struct {
	client      *gomail.Client
	from        string
	frontendURL string
}

// New creates a Mailer from SMTP configuration.
func New(cfg *config.MailConfig) (*Mailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Mailer{
		client:      client,
		from:        cfg.From,
		frontendURL: cfg.FrontendURL,
	}, nil
}

// SendVerificationEmail sends the welcome message with an email-verification
// link for the new account.
func (m *Mailer) SendVerificationEmail(ctx context.Context, email, userID string) error {
	link := fmt.Sprintf("%s/verify-email?id=%s", m.frontendURL, userID)
	body := fmt.Sprintf(`<div style="padding: 1px 12px 24px;font-weight: 500;">
<p>Welcome to Scrapper,</p>
<p>Your companion in helping you search for jobs! Create job alerts for your preferred role, and let Scrapper do the rest.</p>
<p>Click the link below to verify your email address and get started on creating alerts.</p>
<p><a href="%s">Verify Email</a></p>
<p style="margin:0;">Love,</p>
<p style="margin:0;">The Scrapper Team.</p>
</div>`, link)

	return m.send(ctx, email, "Welcome to Scrapper", body)
}

// SendPasswordResetEmail sends the password reset link. The token expires
// one hour after issue.
func (m *Mailer) SendPasswordResetEmail(ctx context.Context, email, resetToken string) error {
	link := fmt.Sprintf("%s/reset-password?resetToken=%s", m.frontendURL, resetToken)
	body := fmt.Sprintf(`<div style="padding: 1px 12px 24px;font-weight: 500;">
<p>You requested to reset your Scrapper password. Click the link below to create a new password:</p>
<p><a href="%s">Reset Password</a></p>
<p>If you didn't request this, please ignore this email.</p>
<p>This link will expire in 1 hour.</p>
<p style="margin:0;">Love,</p>
<p style="margin:0;">The Scrapper Team.</p>
</div>`, link)

	return m.send(ctx, email, "Password Reset Request", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

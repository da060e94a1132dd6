// Package mail implements the mail collaborator on Postmark's transactional
// API. Delivery failures are reported to the caller, never swallowed.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// Config contains the Postmark settings.
type Config struct {
	ServerToken  string
	AccountToken string
	Sender       string
	// ResetURL is the base link embedded in reset mails; the token is
	// appended as a query parameter.
	ResetURL string
}

// PostmarkClient is the subset of the Postmark API the mailer needs.
type PostmarkClient interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkMailer sends transactional mail through Postmark.
type PostmarkMailer struct {
	client PostmarkClient
	config Config
}

func NewPostmarkMailer(cfg Config) (*PostmarkMailer, error) {
	if cfg.ServerToken == "" || cfg.Sender == "" {
		return nil, errors.New("mail: server token and sender are required")
	}
	return &PostmarkMailer{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		config: cfg,
	}, nil
}

// NewPostmarkMailerWithClient wires a pre-built client, for tests.
func NewPostmarkMailerWithClient(client PostmarkClient, cfg Config) *PostmarkMailer {
	return &PostmarkMailer{client: client, config: cfg}
}

// SendPasswordReset dispatches the reset notification carrying the
// single-use token link.
func (m *PostmarkMailer) SendPasswordReset(ctx context.Context, email, resetToken string) error {
	link := fmt.Sprintf("%s?token=%s", m.config.ResetURL, resetToken)

	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:     m.config.Sender,
		To:       email,
		Subject:  "Reset your password",
		HTMLBody: fmt.Sprintf(`<p>A password reset was requested for your account.</p><p><a href=%q>Reset password</a></p><p>The link expires in 30 minutes. If you did not request this, ignore this mail.</p>`, link),
		Tag:      "password-reset",
	})
	if err != nil {
		return fmt.Errorf("mail: send reset: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("mail: postmark error %d: %s", resp.ErrorCode, resp.Message)
	}
	return nil
}

package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mrz1836/postmark"
)

type stubPostmarkClient struct {
	sent []postmark.Email
	err  error
	resp postmark.EmailResponse
}

func (s *stubPostmarkClient) SendEmail(_ context.Context, email postmark.Email) (postmark.EmailResponse, error) {
	if s.err != nil {
		return postmark.EmailResponse{}, s.err
	}
	s.sent = append(s.sent, email)
	return s.resp, nil
}

func testConfig() Config {
	return Config{
		ServerToken: "token",
		Sender:      "noreply@clipstream.app",
		ResetURL:    "https://clipstream.app/reset-password",
	}
}

func TestPostmarkMailer_SendPasswordReset(t *testing.T) {
	client := &stubPostmarkClient{}
	mailer := NewPostmarkMailerWithClient(client, testConfig())

	if err := mailer.SendPasswordReset(context.Background(), "alice@example.com", "tok123"); err != nil {
		t.Fatalf("SendPasswordReset returned error: %v", err)
	}

	if len(client.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(client.sent))
	}
	mail := client.sent[0]
	if mail.To != "alice@example.com" || mail.From != "noreply@clipstream.app" {
		t.Fatalf("unexpected addressing: %+v", mail)
	}
	if !strings.Contains(mail.HTMLBody, "https://clipstream.app/reset-password?token=tok123") {
		t.Fatalf("reset link missing from body: %s", mail.HTMLBody)
	}
}

func TestPostmarkMailer_TransportFailure(t *testing.T) {
	client := &stubPostmarkClient{err: errors.New("connection refused")}
	mailer := NewPostmarkMailerWithClient(client, testConfig())

	if err := mailer.SendPasswordReset(context.Background(), "alice@example.com", "tok123"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPostmarkMailer_APIError(t *testing.T) {
	client := &stubPostmarkClient{resp: postmark.EmailResponse{ErrorCode: 406, Message: "inactive recipient"}}
	mailer := NewPostmarkMailerWithClient(client, testConfig())

	err := mailer.SendPasswordReset(context.Background(), "alice@example.com", "tok123")
	if err == nil || !strings.Contains(err.Error(), "406") {
		t.Fatalf("expected postmark api error, got %v", err)
	}
}

func TestNewPostmarkMailer_RequiresTokenAndSender(t *testing.T) {
	if _, err := NewPostmarkMailer(Config{Sender: "noreply@clipstream.app"}); err == nil {
		t.Fatalf("expected error for missing server token")
	}
	if _, err := NewPostmarkMailer(Config{ServerToken: "token"}); err == nil {
		t.Fatalf("expected error for missing sender")
	}
}

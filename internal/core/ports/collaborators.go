package ports

import (
	"context"
	"mime/multipart"
)

// MediaStorage is the external media-upload collaborator: it stores binary
// content and returns a retrievable public URL.
type MediaStorage interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
}

// Mailer is the external mail collaborator. Delivery failures must be
// reported, never swallowed.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, resetToken string) error
}

// ResetTokenStore holds single-use password-reset tokens with a bounded
// lifetime. Redeem consumes the token atomically and returns the user id it
// was issued for; unknown, expired or already-redeemed tokens yield
// domain.ErrInvalidToken, anything else is an infrastructure failure.
type ResetTokenStore interface {
	Save(ctx context.Context, token, userID string) error
	Redeem(ctx context.Context, token string) (string, error)
}

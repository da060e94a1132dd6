package ports

import (
	"time"

	"github.com/clipstream/video-platform/internal/core/domain"
)

// TokenPair groups the bearer credentials issued on login and refresh.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// RefreshClaims is what a verified refresh token asserts: the user it was
// issued to. Revocation state is checked separately against the store.
type RefreshClaims struct {
	UserID string
}

// TokenIssuer issues and verifies signed session credentials. Signature and
// expiry verification is stateless; the caller is responsible for comparing
// a presented refresh token against the stored one.
type TokenIssuer interface {
	IssuePair(user *domain.User) (TokenPair, error)
	VerifyRefresh(token string) (*RefreshClaims, error)
}

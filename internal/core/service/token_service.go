package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clipstream/video-platform/internal/core/domain"
	"github.com/clipstream/video-platform/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenService issues and verifies the session credentials. Access and
// refresh tokens are signed with distinct secrets so a leaked access secret
// cannot mint refresh tokens.
type TokenService struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

type accessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type refreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssuePair mints a fresh access/refresh pair for the user. Callers must
// persist the refresh token as the user's single active one; issuing a new
// pair implicitly invalidates the previous refresh token.
func (ts *TokenService) IssuePair(user *domain.User) (ports.TokenPair, error) {
	now := time.Now()
	accessExp := now.Add(ts.accessTTL)
	refreshExp := now.Add(ts.refreshTTL)

	access := accessClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(accessExp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	refresh := refreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString([]byte(ts.accessSecret))
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString([]byte(ts.refreshSecret))
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return ports.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyRefresh checks signature and expiry of a refresh token. Both failure
// modes collapse to domain.ErrInvalidToken: downstream policy treats them
// identically as "must re-authenticate".
func (ts *TokenService) VerifyRefresh(token string) (*ports.RefreshClaims, error) {
	claims := &refreshClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(ts.refreshSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return &ports.RefreshClaims{UserID: claims.UserID}, nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clipstream/video-platform/internal/core/domain"
)

const resetTokenTTL = 30 * time.Minute

// ResetTokenStore keeps single-use password-reset tokens in Redis.
// Key format: pwreset:<token> → user id, expiring after resetTokenTTL.
type ResetTokenStore struct {
	client *redis.Client
}

func NewResetTokenStore(client *redis.Client) *ResetTokenStore {
	return &ResetTokenStore{client: client}
}

// Save records a reset token for the user with a bounded lifetime.
func (s *ResetTokenStore) Save(ctx context.Context, token, userID string) error {
	if err := s.client.Set(ctx, s.key(token), userID, resetTokenTTL).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

// Redeem consumes the token atomically (GETDEL) so it cannot be replayed,
// and returns the user id it was issued for. An unknown, expired or
// already-redeemed token yields domain.ErrInvalidToken; any other error is
// an infrastructure failure.
func (s *ResetTokenStore) Redeem(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidToken
		}
		return "", fmt.Errorf("redeem reset token: %w", err)
	}
	return userID, nil
}

func (s *ResetTokenStore) key(token string) string {
	return "pwreset:" + token
}

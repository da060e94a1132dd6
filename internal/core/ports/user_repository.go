package ports

import (
	"context"

	"github.com/clipstream/video-platform/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// Uniqueness of username and email is enforced by the store's unique
// indexes; Create reports a duplicate as domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)

	// UpdateRefreshToken sets the single stored refresh token for the user;
	// an empty token clears it.
	UpdateRefreshToken(ctx context.Context, userID, token string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateDetails(ctx context.Context, userID string, fields UserDetails) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID, url string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID, url string) (*domain.User, error)

	// AddToWatchHistory appends videoID to the user's watch history,
	// removing any earlier occurrence first (dedupe-and-append).
	AddToWatchHistory(ctx context.Context, userID, videoID string) error
	WatchHistoryIDs(ctx context.Context, userID string) ([]string, error)
}

// UserDetails is the mutable subset of account fields. Empty strings mean
// "leave unchanged".
type UserDetails struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

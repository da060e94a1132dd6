package ports

import (
	"context"
	"mime/multipart"

	"github.com/clipstream/video-platform/internal/core/domain"
)

// RegisterInput carries the text fields of a registration request. Files
// travel separately as multipart headers.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginResult bundles the sanitized user with the freshly issued pair.
type LoginResult struct {
	User   domain.PublicUser
	Tokens TokenPair
}

// UserService orchestrates the account/session lifecycle.
type UserService interface {
	Register(ctx context.Context, input RegisterInput, avatar, cover *multipart.FileHeader) (*domain.PublicUser, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, presentedToken string) (*TokenPair, error)
	CurrentUser(ctx context.Context, userID string) (*domain.PublicUser, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	UpdateDetails(ctx context.Context, userID string, fields UserDetails) (*domain.PublicUser, error)
	UpdateAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*domain.PublicUser, error)
	UpdateCoverImage(ctx context.Context, userID string, file *multipart.FileHeader) (*domain.PublicUser, error)
	AddToWatchHistory(ctx context.Context, userID, videoID string) error
}

package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipstream/video-platform/internal/core/domain"
	"github.com/clipstream/video-platform/internal/core/ports"
)

const (
	avatarFolder = "avatars"
	coverFolder  = "covers"
)

// UserService orchestrates registration, login, logout, token refresh and
// the password/profile mutations. All coordination (uniqueness, single
// active refresh token) is delegated to the repository's atomic writes.
type UserService struct {
	repo    ports.UserRepository
	tokens  ports.TokenIssuer
	storage ports.MediaStorage
	mailer  ports.Mailer
	resets  ports.ResetTokenStore
	log     zerolog.Logger
}

func NewUserService(
	repo ports.UserRepository,
	tokens ports.TokenIssuer,
	storage ports.MediaStorage,
	mailer ports.Mailer,
	resets ports.ResetTokenStore,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		repo:    repo,
		tokens:  tokens,
		storage: storage,
		mailer:  mailer,
		resets:  resets,
		log:     log,
	}
}

// Register creates a new account. All text fields are required post-trim,
// the avatar file is mandatory, and a cover-image upload failure is
// non-fatal (the cover is stored empty).
func (s *UserService) Register(ctx context.Context, input ports.RegisterInput, avatar, cover *multipart.FileHeader) (*domain.PublicUser, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	firstName := strings.ToLower(strings.TrimSpace(input.FirstName))
	lastName := strings.ToLower(strings.TrimSpace(input.LastName))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" || firstName == "" || lastName == "" || email == "" || strings.TrimSpace(input.Password) == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}
	if avatar == nil {
		return nil, fmt.Errorf("%w: avatar file is required", domain.ErrValidation)
	}

	if existing, err := s.repo.FindByUsernameOrEmail(ctx, username, email); err == nil && existing != nil {
		return nil, domain.ErrUserExists
	} else if err != nil && err != domain.ErrUserNotFound {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	avatarURL, err := s.storage.Upload(ctx, avatar, avatarFolder)
	if err != nil || avatarURL == "" {
		return nil, fmt.Errorf("%w: avatar: %v", domain.ErrUploadFailed, err)
	}

	coverURL := ""
	if cover != nil {
		coverURL, err = s.storage.Upload(ctx, cover, coverFolder)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("cover image upload failed, continuing without")
			coverURL = ""
		}
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		Avatar:       avatarURL,
		CoverImage:   coverURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", username).Msg("user registered")

	pub := created.Public()
	return &pub, nil
}

// Login authenticates by username or email, issues a fresh token pair and
// records the new refresh token as the user's single active one.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return nil, fmt.Errorf("%w: username or email is required", domain.ErrValidation)
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, identifier, identifier)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.repo.UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("login: store refresh token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.LoginResult{User: user.Public(), Tokens: pair}, nil
}

// Logout clears the stored refresh token unconditionally. Logging out an
// already-logged-out user is not an error.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Refresh rotates the token pair. The presented token must carry a valid
// signature, reference an existing user, and exactly match the stored
// refresh token; any deviation means re-authentication is required.
func (s *UserService) Refresh(ctx context.Context, presentedToken string) (*ports.TokenPair, error) {
	if presentedToken == "" {
		return nil, domain.ErrInvalidToken
	}

	claims, err := s.tokens.VerifyRefresh(presentedToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if user.RefreshToken == "" || user.RefreshToken != presentedToken {
		return nil, domain.ErrInvalidToken
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if err := s.repo.UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("refresh: store refresh token: %w", err)
	}

	s.log.Debug().Str("user_id", user.ID).Msg("token pair rotated")

	return &pair, nil
}

// CurrentUser returns the sanitized projection of the authenticated user.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// ChangePassword replaces the password hash after verifying the current
// password. The active refresh token is left untouched; logout is the
// explicit revocation path.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if strings.TrimSpace(currentPassword) == "" || strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: current and new password are required", domain.ErrValidation)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")

	return nil
}

// RequestPasswordReset issues a single-use reset token and mails it to the
// account's address. A mail-collaborator failure surfaces to the caller
// instead of being reported as success.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, "", email)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.resets.Save(ctx, token, user.ID); err != nil {
		return fmt.Errorf("password reset: store token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset mail dispatched")

	return nil
}

// ConfirmPasswordReset redeems a reset token, replaces the password hash and
// clears any active session so the old refresh token cannot outlive the
// reset.
func (s *UserService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: token and new password are required", domain.ErrValidation)
	}

	userID, err := s.resets.Redeem(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("confirm reset: redeem token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("confirm reset: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("confirm reset: %w", err)
	}
	if err := s.repo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("confirm reset: clear session: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("password reset completed")

	return nil
}

// UpdateDetails mutates the provided subset of account fields. Identity
// fields are canonicalized the same way as on registration.
func (s *UserService) UpdateDetails(ctx context.Context, userID string, fields ports.UserDetails) (*domain.PublicUser, error) {
	fields.Username = strings.ToLower(strings.TrimSpace(fields.Username))
	fields.FirstName = strings.ToLower(strings.TrimSpace(fields.FirstName))
	fields.LastName = strings.ToLower(strings.TrimSpace(fields.LastName))
	fields.Email = strings.ToLower(strings.TrimSpace(fields.Email))

	if fields.Username == "" && fields.FirstName == "" && fields.LastName == "" && fields.Email == "" {
		return nil, fmt.Errorf("%w: at least one field is required", domain.ErrValidation)
	}

	if fields.Username != "" || fields.Email != "" {
		existing, err := s.repo.FindByUsernameOrEmail(ctx, fields.Username, fields.Email)
		if err == nil && existing != nil && existing.ID != userID {
			return nil, domain.ErrUserExists
		}
	}

	updated, err := s.repo.UpdateDetails(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	pub := updated.Public()
	return &pub, nil
}

// UpdateAvatar uploads a replacement avatar and persists its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*domain.PublicUser, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: avatar file is required", domain.ErrValidation)
	}
	url, err := s.storage.Upload(ctx, file, avatarFolder)
	if err != nil || url == "" {
		return nil, fmt.Errorf("%w: avatar: %v", domain.ErrUploadFailed, err)
	}
	updated, err := s.repo.UpdateAvatar(ctx, userID, url)
	if err != nil {
		return nil, err
	}
	pub := updated.Public()
	return &pub, nil
}

// UpdateCoverImage uploads a replacement cover image and persists its URL.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, file *multipart.FileHeader) (*domain.PublicUser, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: cover image file is required", domain.ErrValidation)
	}
	url, err := s.storage.Upload(ctx, file, coverFolder)
	if err != nil || url == "" {
		return nil, fmt.Errorf("%w: cover image: %v", domain.ErrUploadFailed, err)
	}
	updated, err := s.repo.UpdateCoverImage(ctx, userID, url)
	if err != nil {
		return nil, err
	}
	pub := updated.Public()
	return &pub, nil
}

// AddToWatchHistory records a view. Policy: dedupe-and-append — rewatching
// moves the video to the tail, so the sequence stays ordered oldest to
// newest with no duplicates.
func (s *UserService) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	if strings.TrimSpace(videoID) == "" {
		return fmt.Errorf("%w: video id is required", domain.ErrValidation)
	}
	if err := s.repo.AddToWatchHistory(ctx, userID, videoID); err != nil {
		return fmt.Errorf("watch history: %w", err)
	}
	return nil
}

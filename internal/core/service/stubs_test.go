package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/clipstream/video-platform/internal/core/domain"
	"github.com/clipstream/video-platform/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.WatchHistory = append([]string(nil), u.WatchHistory...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	if username == "" && email == "" {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateRefreshToken(_ context.Context, userID, token string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubUserRepo) UpdateDetails(_ context.Context, userID string, fields ports.UserDetails) (*domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if fields.Username != "" {
		u.Username = fields.Username
	}
	if fields.FirstName != "" {
		u.FirstName = fields.FirstName
	}
	if fields.LastName != "" {
		u.LastName = fields.LastName
	}
	if fields.Email != "" {
		u.Email = fields.Email
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateAvatar(_ context.Context, userID, url string) (*domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Avatar = url
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateCoverImage(_ context.Context, userID, url string) (*domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.CoverImage = url
	return cloneUser(u), nil
}

func (r *stubUserRepo) AddToWatchHistory(_ context.Context, userID, videoID string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	filtered := u.WatchHistory[:0]
	for _, id := range u.WatchHistory {
		if id != videoID {
			filtered = append(filtered, id)
		}
	}
	u.WatchHistory = append(filtered, videoID)
	return nil
}

func (r *stubUserRepo) WatchHistoryIDs(_ context.Context, userID string) ([]string, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return append([]string(nil), u.WatchHistory...), nil
}

// stubTokenIssuer hands out sequence-numbered tokens so rotation can be
// asserted without depending on signing timestamps.
type stubTokenIssuer struct {
	issued int
	known  map[string]string
}

func newStubTokenIssuer() *stubTokenIssuer {
	return &stubTokenIssuer{known: make(map[string]string)}
}

func (s *stubTokenIssuer) IssuePair(user *domain.User) (ports.TokenPair, error) {
	s.issued++
	refresh := fmt.Sprintf("refresh_%d", s.issued)
	s.known[refresh] = user.ID
	now := time.Now()
	return ports.TokenPair{
		AccessToken:      fmt.Sprintf("access_%d", s.issued),
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(15 * time.Minute),
		RefreshExpiresAt: now.Add(7 * 24 * time.Hour),
	}, nil
}

func (s *stubTokenIssuer) VerifyRefresh(token string) (*ports.RefreshClaims, error) {
	if userID, ok := s.known[token]; ok {
		return &ports.RefreshClaims{UserID: userID}, nil
	}
	return nil, domain.ErrInvalidToken
}

type stubStorage struct {
	failFolders map[string]bool
	uploads     []string
}

func newStubStorage() *stubStorage {
	return &stubStorage{failFolders: make(map[string]bool)}
}

func (s *stubStorage) Upload(_ context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if s.failFolders[folder] {
		return "", errors.New("storage unavailable")
	}
	url := "https://cdn.test/" + folder + "/" + file.Filename
	s.uploads = append(s.uploads, url)
	return url, nil
}

type sentMail struct {
	email string
	token string
}

type stubMailer struct {
	fail bool
	sent []sentMail
}

func (m *stubMailer) SendPasswordReset(_ context.Context, email, resetToken string) error {
	if m.fail {
		return errors.New("postmark unreachable")
	}
	m.sent = append(m.sent, sentMail{email: email, token: resetToken})
	return nil
}

type stubResetStore struct {
	tokens     map[string]string
	failRedeem error
}

func newStubResetStore() *stubResetStore {
	return &stubResetStore{tokens: make(map[string]string)}
}

func (s *stubResetStore) Save(_ context.Context, token, userID string) error {
	s.tokens[token] = userID
	return nil
}

func (s *stubResetStore) Redeem(_ context.Context, token string) (string, error) {
	if s.failRedeem != nil {
		return "", s.failRedeem
	}
	userID, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	delete(s.tokens, token)
	return userID, nil
}

type stubVideoRepo struct {
	videos map[string]domain.Video
	nextID int
}

func newStubVideoRepo() *stubVideoRepo {
	return &stubVideoRepo{videos: make(map[string]domain.Video)}
}

func (r *stubVideoRepo) Create(_ context.Context, video *domain.Video) (*domain.Video, error) {
	r.nextID++
	copy := *video
	copy.ID = fmt.Sprintf("video_%d", r.nextID)
	r.videos[copy.ID] = copy
	return &copy, nil
}

func (r *stubVideoRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Video, error) {
	out := make([]domain.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.videos[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

type stubSubscriptionRepo struct {
	subscribers  map[string]int64
	subscribedTo map[string]int64
	edges        map[string]bool
}

func newStubSubscriptionRepo() *stubSubscriptionRepo {
	return &stubSubscriptionRepo{
		subscribers:  make(map[string]int64),
		subscribedTo: make(map[string]int64),
		edges:        make(map[string]bool),
	}
}

func (r *stubSubscriptionRepo) CountSubscribers(_ context.Context, channelID string) (int64, error) {
	return r.subscribers[channelID], nil
}

func (r *stubSubscriptionRepo) CountSubscribedTo(_ context.Context, subscriberID string) (int64, error) {
	return r.subscribedTo[subscriberID], nil
}

func (r *stubSubscriptionRepo) IsSubscribed(_ context.Context, channelID, subscriberID string) (bool, error) {
	return r.edges[channelID+"|"+subscriberID], nil
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clipstream/video-platform/internal/core/domain"
	"github.com/clipstream/video-platform/internal/core/ports"
)

type stubUserService struct {
	registerFn       func(ctx context.Context, input ports.RegisterInput, avatar, cover *multipart.FileHeader) (*domain.PublicUser, error)
	loginFn          func(ctx context.Context, identifier, password string) (*ports.LoginResult, error)
	logoutFn         func(ctx context.Context, userID string) error
	refreshFn        func(ctx context.Context, presentedToken string) (*ports.TokenPair, error)
	currentUserFn    func(ctx context.Context, userID string) (*domain.PublicUser, error)
	changePasswordFn func(ctx context.Context, userID, currentPassword, newPassword string) error
	requestResetFn   func(ctx context.Context, email string) error
	confirmResetFn   func(ctx context.Context, token, newPassword string) error
	updateDetailsFn  func(ctx context.Context, userID string, fields ports.UserDetails) (*domain.PublicUser, error)
	updateAvatarFn   func(ctx context.Context, userID string, file *multipart.FileHeader) (*domain.PublicUser, error)
	updateCoverFn    func(ctx context.Context, userID string, file *multipart.FileHeader) (*domain.PublicUser, error)
	watchHistoryFn   func(ctx context.Context, userID, videoID string) error
}

func (s *stubUserService) Register(ctx context.Context, input ports.RegisterInput, avatar, cover *multipart.FileHeader) (*domain.PublicUser, error) {
	return s.registerFn(ctx, input, avatar, cover)
}

func (s *stubUserService) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, identifier, password)
}

func (s *stubUserService) Logout(ctx context.Context, userID string) error {
	return s.logoutFn(ctx, userID)
}

func (s *stubUserService) Refresh(ctx context.Context, presentedToken string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, presentedToken)
}

func (s *stubUserService) CurrentUser(ctx context.Context, userID string) (*domain.PublicUser, error) {
	return s.currentUserFn(ctx, userID)
}

func (s *stubUserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	return s.changePasswordFn(ctx, userID, currentPassword, newPassword)
}

func (s *stubUserService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.requestResetFn(ctx, email)
}

func (s *stubUserService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return s.confirmResetFn(ctx, token, newPassword)
}

func (s *stubUserService) UpdateDetails(ctx context.Context, userID string, fields ports.UserDetails) (*domain.PublicUser, error) {
	return s.updateDetailsFn(ctx, userID, fields)
}

func (s *stubUserService) UpdateAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*domain.PublicUser, error) {
	return s.updateAvatarFn(ctx, userID, file)
}

func (s *stubUserService) UpdateCoverImage(ctx context.Context, userID string, file *multipart.FileHeader) (*domain.PublicUser, error) {
	return s.updateCoverFn(ctx, userID, file)
}

func (s *stubUserService) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	return s.watchHistoryFn(ctx, userID, videoID)
}

func newTestContext(t *testing.T, method, path string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, filename := range files {
		fw, err := w.CreateFormFile(name, filename)
		if err != nil {
			t.Fatalf("create form file %s: %v", name, err)
		}
		if _, err := fw.Write([]byte("content")); err != nil {
			t.Fatalf("write file %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, w.FormDataContentType()
}

func TestUserHandler_Register(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(_ context.Context, input ports.RegisterInput, avatar, cover *multipart.FileHeader) (*domain.PublicUser, error) {
			if input.Username != "alice" || input.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if avatar == nil {
				t.Fatalf("expected avatar file")
			}
			if cover != nil {
				t.Fatalf("expected no cover file")
			}
			return &domain.PublicUser{ID: "user_1", Username: input.Username, Email: input.Email}, nil
		},
	}
	h := NewUserHandler(stub)

	body, contentType := multipartBody(t,
		map[string]string{
			"username":  "alice",
			"firstName": "Alice",
			"lastName":  "Smith",
			"email":     "alice@example.com",
			"password":  "s3cretpass",
		},
		map[string]string{"avatar": "avatar.png"},
	)
	c, rec := newTestContext(t, http.MethodPost, "/users/register", body, contentType)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Register_Conflict(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(context.Context, ports.RegisterInput, *multipart.FileHeader, *multipart.FileHeader) (*domain.PublicUser, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewUserHandler(stub)

	body, contentType := multipartBody(t, map[string]string{"username": "bob"}, nil)
	c, _ := newTestContext(t, http.MethodPost, "/users/register", body, contentType)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserHandler_Login(t *testing.T) {
	pair := ports.TokenPair{
		AccessToken:      "access_1",
		RefreshToken:     "refresh_1",
		AccessExpiresAt:  time.Now().Add(15 * time.Minute),
		RefreshExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	stub := &stubUserService{
		loginFn: func(_ context.Context, identifier, password string) (*ports.LoginResult, error) {
			if identifier != "alice" || password != "s3cretpass" {
				t.Fatalf("unexpected args: %s %s", identifier, password)
			}
			return &ports.LoginResult{
				User:   domain.PublicUser{ID: "user_1", Username: "alice"},
				Tokens: pair,
			}, nil
		},
	}
	h := NewUserHandler(stub)

	body := strings.NewReader(`{"username":"alice","password":"s3cretpass"}`)
	c, rec := newTestContext(t, http.MethodPost, "/users/login", body, echo.MIMEApplicationJSON)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["accessToken"] != "access_1" || resp["refreshToken"] != "refresh_1" {
		t.Fatalf("tokens missing from payload: %+v", resp)
	}

	cookies := rec.Result().Cookies()
	byName := make(map[string]*http.Cookie, len(cookies))
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}
	for name, want := range map[string]string{accessTokenCookie: "access_1", refreshTokenCookie: "refresh_1"} {
		cookie, ok := byName[name]
		if !ok {
			t.Fatalf("missing cookie %s", name)
		}
		if cookie.Value != want {
			t.Fatalf("cookie %s = %q, want %q", name, cookie.Value, want)
		}
		if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteStrictMode {
			t.Fatalf("cookie %s must be http-only, secure and same-site strict: %+v", name, cookie)
		}
	}
}

func TestUserHandler_Login_MissingPassword(t *testing.T) {
	stub := &stubUserService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	body := strings.NewReader(`{"username":"alice"}`)
	c, _ := newTestContext(t, http.MethodPost, "/users/login", body, echo.MIMEApplicationJSON)

	if err := h.Login(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserHandler_Logout(t *testing.T) {
	stub := &stubUserService{
		logoutFn: func(_ context.Context, userID string) error {
			if userID != "user_1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/users/logout", nil, "")
	c.Set("user_id", "user_1")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Both session cookies must be expired.
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Value != "" || cookie.Expires.After(time.Unix(1, 0)) {
			t.Fatalf("cookie %s not expired: %+v", cookie.Name, cookie)
		}
	}
}

func TestUserHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newTestContext(t, http.MethodPost, "/users/logout", nil, "")

	err := h.Logout(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestUserHandler_Refresh_FromCookie(t *testing.T) {
	stub := &stubUserService{
		refreshFn: func(_ context.Context, token string) (*ports.TokenPair, error) {
			if token != "refresh_1" {
				t.Fatalf("unexpected token: %s", token)
			}
			return &ports.TokenPair{AccessToken: "access_2", RefreshToken: "refresh_2"}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/users/refresh-token", nil, "")
	c.Request().AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "refresh_1"})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["refreshToken"] != "refresh_2" {
		t.Fatalf("expected rotated token, got %+v", resp)
	}
}

func TestUserHandler_Refresh_FromBody(t *testing.T) {
	stub := &stubUserService{
		refreshFn: func(_ context.Context, token string) (*ports.TokenPair, error) {
			if token != "refresh_1" {
				t.Fatalf("unexpected token: %s", token)
			}
			return &ports.TokenPair{AccessToken: "access_2", RefreshToken: "refresh_2"}, nil
		},
	}
	h := NewUserHandler(stub)

	body := strings.NewReader(`{"refreshToken":"refresh_1"}`)
	c, rec := newTestContext(t, http.MethodPost, "/users/refresh-token", body, echo.MIMEApplicationJSON)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Refresh_Invalid(t *testing.T) {
	stub := &stubUserService{
		refreshFn: func(context.Context, string) (*ports.TokenPair, error) {
			return nil, domain.ErrInvalidToken
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/users/refresh-token", nil, "")

	if err := h.Refresh(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestUserHandler_CurrentUser(t *testing.T) {
	stub := &stubUserService{
		currentUserFn: func(_ context.Context, userID string) (*domain.PublicUser, error) {
			return &domain.PublicUser{ID: userID, Username: "alice"}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/users/user", nil, "")
	c.Set("user_id", "user_1")

	if err := h.CurrentUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_ChangePassword_ShortNewPassword(t *testing.T) {
	stub := &stubUserService{
		changePasswordFn: func(context.Context, string, string, string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewUserHandler(stub)

	body := strings.NewReader(`{"currentPassword":"old","newPassword":"short"}`)
	c, _ := newTestContext(t, http.MethodPost, "/users/change-password", body, echo.MIMEApplicationJSON)
	c.Set("user_id", "user_1")

	if err := h.ChangePassword(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserHandler_ResetPassword_MailFailure(t *testing.T) {
	stub := &stubUserService{
		requestResetFn: func(context.Context, string) error {
			return domain.ErrMailDelivery
		},
	}
	h := NewUserHandler(stub)

	body := strings.NewReader(`{"email":"alice@example.com"}`)
	c, _ := newTestContext(t, http.MethodPost, "/users/reset-password", body, echo.MIMEApplicationJSON)

	if err := h.ResetPassword(c); !errors.Is(err, domain.ErrMailDelivery) {
		t.Fatalf("expected ErrMailDelivery, got %v", err)
	}
}

func TestUserHandler_AddToWatchHistory(t *testing.T) {
	stub := &stubUserService{
		watchHistoryFn: func(_ context.Context, userID, videoID string) error {
			if userID != "user_1" || videoID != "video_9" {
				t.Fatalf("unexpected args: %s %s", userID, videoID)
			}
			return nil
		},
	}
	h := NewUserHandler(stub)

	body := strings.NewReader(`{"videoId":"video_9"}`)
	c, rec := newTestContext(t, http.MethodPatch, "/users/add-to-watch-history", body, echo.MIMEApplicationJSON)
	c.Set("user_id", "user_1")

	if err := h.AddToWatchHistory(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

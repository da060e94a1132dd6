package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clipstream/video-platform/internal/api/metrics"
	"github.com/clipstream/video-platform/internal/core/domain"
	"github.com/clipstream/video-platform/internal/core/ports"
)

// UserHandler exposes the account/session lifecycle over HTTP.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register creates a new user account from a multipart form.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Param        username   formData  string  true   "Unique handle"
// @Param        firstName  formData  string  true   "First name"
// @Param        lastName   formData  string  true   "Last name"
// @Param        email      formData  string  true   "Email address"
// @Param        password   formData  string  true   "Password"
// @Param        avatar     formData  file    true   "Avatar image"
// @Param        coverImage formData  file    false  "Cover image"
// @Success      201  {object}  userResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	input := ports.RegisterInput{
		Username:  c.FormValue("username"),
		FirstName: c.FormValue("firstName"),
		LastName:  c.FormValue("lastName"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
	}

	avatar := formFile(c, "avatar")
	cover := formFile(c, "coverImage")

	user, err := h.users.Register(c.Request().Context(), input, avatar, cover)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusCreated, userResponse{User: *user})
}

// Login authenticates by username or email and issues a token pair. Both
// tokens are also set as http-only, secure cookies.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	result, err := h.users.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	setSessionCookies(c, result.Tokens)

	return c.JSON(http.StatusOK, loginResponse{
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	})
}

// Logout clears the stored refresh token and expires both cookies.
// Idempotent: logging out twice is not an error.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.users.Logout(c.Request().Context(), userID); err != nil {
		return err
	}

	clearSessionCookies(c)

	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Refresh rotates the token pair. The refresh token is read from the
// refreshToken cookie, falling back to the JSON body.
//
// @Summary      Refresh the token pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token (when not sent as cookie)"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /users/refresh-token [post]
func (h *UserHandler) Refresh(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}

	pair, err := h.users.Refresh(c.Request().Context(), token)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("denied").Inc()
		return err
	}
	metrics.TokenRefreshTotal.WithLabelValues("ok").Inc()

	setSessionCookies(c, *pair)

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// CurrentUser returns the authenticated user's sanitized profile.
//
// @Summary      Get the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Router       /users/user [get]
func (h *UserHandler) CurrentUser(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.users.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: *user})
}

// UpdateDetails mutates a subset of the account's text fields.
//
// @Summary      Update account details
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateDetailsRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/update-user-details [patch]
func (h *UserHandler) UpdateDetails(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateDetailsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.UpdateDetails(c.Request().Context(), userID, ports.UserDetails{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: *user})
}

// UpdateAvatar replaces the account's avatar image.
//
// @Summary      Update avatar
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "Avatar image"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  map[string]string
// @Router       /users/update-avatar [post]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.users.UpdateAvatar(c.Request().Context(), userID, formFile(c, "avatar"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: *user})
}

// UpdateCoverImage replaces the account's cover image.
//
// @Summary      Update cover image
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        coverImage  formData  file  true  "Cover image"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  map[string]string
// @Router       /users/update-cover-image [post]
func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.users.UpdateCoverImage(c.Request().Context(), userID, formFile(c, "coverImage"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: *user})
}

// ChangePassword replaces the password after verifying the current one.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Router       /users/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed"})
}

// ResetPassword dispatches a password-reset mail carrying a single-use
// token. Mail-collaborator failures surface as errors.
//
// @Summary      Request a password reset
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /users/reset-password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrMailDelivery) {
			metrics.PasswordResetsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "reset mail sent"})
}

// ConfirmResetPassword redeems a reset token and sets a new password.
//
// @Summary      Confirm a password reset
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      confirmResetRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Router       /users/reset-password/confirm [post]
func (h *UserHandler) ConfirmResetPassword(c echo.Context) error {
	var req confirmResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.ConfirmPasswordReset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password reset"})
}

// AddToWatchHistory records a view in the user's watch history.
//
// @Summary      Add a video to watch history
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      watchHistoryRequest  true  "Video id"
// @Success      200   {object}  messageResponse
// @Router       /users/add-to-watch-history [patch]
func (h *UserHandler) AddToWatchHistory(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req watchHistoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.AddToWatchHistory(c.Request().Context(), userID, req.VideoID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "watch history updated"})
}

// formFile returns the named multipart file, or nil when absent. Presence
// requirements are enforced by the service layer.
func formFile(c echo.Context, name string) *multipart.FileHeader {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return fh
}

func registerResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "conflict"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

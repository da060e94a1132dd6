package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clipstream/video-platform/internal/core/ports"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// setSessionCookies attaches both tokens as http-only, secure cookies.
func setSessionCookies(c echo.Context, pair ports.TokenPair) {
	c.SetCookie(sessionCookie(accessTokenCookie, pair.AccessToken, pair.AccessExpiresAt))
	c.SetCookie(sessionCookie(refreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt))
}

// clearSessionCookies expires both token cookies.
func clearSessionCookies(c echo.Context) {
	expired := time.Unix(0, 0)
	c.SetCookie(sessionCookie(accessTokenCookie, "", expired))
	c.SetCookie(sessionCookie(refreshTokenCookie, "", expired))
}

func sessionCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clipstream/video-platform/internal/core/ports"
)

// ProfileHandler exposes the read-only aggregation endpoints.
type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Channel returns a channel's profile with subscription aggregates.
// IsSubscribed is personalised when the viewer is authenticated.
//
// @Summary      Get a channel profile
// @Tags         profiles
// @Produce      json
// @Param        username  path      string  true  "Channel handle"
// @Success      200       {object}  domain.ChannelProfile
// @Failure      404       {object}  map[string]string
// @Router       /users/channel/{username} [get]
func (h *ProfileHandler) Channel(c echo.Context) error {
	username := c.Param("username")
	viewerID, _ := c.Get("user_id").(string)

	profile, err := h.profiles.ChannelProfile(c.Request().Context(), username, viewerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// WatchHistory returns the authenticated user's viewing sequence, oldest
// first, each entry joined with its owner's public subset.
//
// @Summary      Get watch history
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.VideoSummary
// @Router       /users/watch-history [get]
func (h *ProfileHandler) WatchHistory(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	history, err := h.profiles.WatchHistory(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

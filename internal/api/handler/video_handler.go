package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clipstream/video-platform/internal/core/ports"
)

// VideoHandler exposes the video upload endpoint.
type VideoHandler struct {
	videos ports.VideoService
}

func NewVideoHandler(videos ports.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// Upload stores a new video with its thumbnail.
//
// @Summary      Upload a video
// @Tags         videos
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true  "Title"
// @Param        description  formData  string  true  "Description"
// @Param        channel      formData  string  true  "Channel"
// @Param        video        formData  file    true  "Video file"
// @Param        thumbnail    formData  file    true  "Thumbnail image"
// @Success      201  {object}  domain.Video
// @Failure      400  {object}  map[string]string
// @Router       /videos/upload [post]
func (h *VideoHandler) Upload(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	input := ports.UploadVideoInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Channel:     c.FormValue("channel"),
	}

	video, err := h.videos.Upload(c.Request().Context(), ownerID, input, formFile(c, "video"), formFile(c, "thumbnail"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, video)
}

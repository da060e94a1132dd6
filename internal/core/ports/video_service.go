package ports

import (
	"context"
	"mime/multipart"

	"github.com/clipstream/video-platform/internal/core/domain"
)

// UploadVideoInput carries the text fields of a video upload.
type UploadVideoInput struct {
	Title       string
	Description string
	Channel     string
}

// VideoService handles video uploads.
type VideoService interface {
	Upload(ctx context.Context, ownerID string, input UploadVideoInput, video, thumbnail *multipart.FileHeader) (*domain.Video, error)
}

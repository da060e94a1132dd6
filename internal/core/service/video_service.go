package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipstream/video-platform/internal/core/domain"
	"github.com/clipstream/video-platform/internal/core/ports"
)

const (
	videoFolder     = "videos"
	thumbnailFolder = "thumbnails"
)

// VideoService handles video uploads: both media files go through the
// external storage collaborator before the document is persisted.
type VideoService struct {
	repo    ports.VideoRepository
	storage ports.MediaStorage
	log     zerolog.Logger
}

func NewVideoService(repo ports.VideoRepository, storage ports.MediaStorage, log zerolog.Logger) *VideoService {
	return &VideoService{repo: repo, storage: storage, log: log}
}

// Upload validates the submission, uploads the media and thumbnail, and
// persists the video. Failure of either upload aborts the operation.
func (s *VideoService) Upload(ctx context.Context, ownerID string, input ports.UploadVideoInput, video, thumbnail *multipart.FileHeader) (*domain.Video, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	channel := strings.TrimSpace(input.Channel)

	if title == "" || description == "" || channel == "" {
		return nil, fmt.Errorf("%w: title, description and channel are required", domain.ErrValidation)
	}
	if video == nil {
		return nil, fmt.Errorf("%w: video file is required", domain.ErrValidation)
	}
	if thumbnail == nil {
		return nil, fmt.Errorf("%w: thumbnail file is required", domain.ErrValidation)
	}

	videoURL, err := s.storage.Upload(ctx, video, videoFolder)
	if err != nil || videoURL == "" {
		return nil, fmt.Errorf("%w: video: %v", domain.ErrUploadFailed, err)
	}
	thumbURL, err := s.storage.Upload(ctx, thumbnail, thumbnailFolder)
	if err != nil || thumbURL == "" {
		return nil, fmt.Errorf("%w: thumbnail: %v", domain.ErrUploadFailed, err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Video{
		Title:       title,
		Description: description,
		URL:         videoURL,
		Thumbnail:   thumbURL,
		Owner:       ownerID,
		Channel:     channel,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}

	s.log.Info().Str("video_id", created.ID).Str("owner_id", ownerID).Msg("video uploaded")

	return created, nil
}

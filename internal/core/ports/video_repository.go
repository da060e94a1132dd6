package ports

import (
	"context"

	"github.com/clipstream/video-platform/internal/core/domain"
)

// VideoRepository defines persistence for uploaded videos.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) (*domain.Video, error)

	// FindByIDs returns the videos for the given ids, in the order the ids
	// were supplied. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]domain.Video, error)
}

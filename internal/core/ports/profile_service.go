package ports

import (
	"context"

	"github.com/clipstream/video-platform/internal/core/domain"
)

// ProfileService is the read-only aggregation surface: channel profiles and
// watch-history listings.
type ProfileService interface {
	// ChannelProfile resolves a channel by handle. viewerID may be empty for
	// anonymous viewers; IsSubscribed is then always false.
	ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]domain.VideoSummary, error)
}

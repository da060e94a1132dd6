package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clipstream/video-platform/internal/core/domain"
	"github.com/clipstream/video-platform/internal/core/ports"
)

// ProfileService answers the read-only aggregation queries: channel
// profiles and watch-history listings. Counting over subscription edges is
// delegated to the store.
type ProfileService struct {
	users         ports.UserRepository
	subscriptions ports.SubscriptionRepository
	videos        ports.VideoRepository
	log           zerolog.Logger
}

func NewProfileService(
	users ports.UserRepository,
	subscriptions ports.SubscriptionRepository,
	videos ports.VideoRepository,
	log zerolog.Logger,
) *ProfileService {
	return &ProfileService{
		users:         users,
		subscriptions: subscriptions,
		videos:        videos,
		log:           log,
	}
}

// ChannelProfile resolves a channel by handle and aggregates its
// subscription edges. viewerID may be empty for anonymous viewers.
func (s *ProfileService) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, "")
	if err != nil {
		return nil, err
	}

	subscribers, err := s.subscriptions.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("channel profile: count subscribers: %w", err)
	}
	subscribedTo, err := s.subscriptions.CountSubscribedTo(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("channel profile: count subscriptions: %w", err)
	}

	isSubscribed := false
	if viewerID != "" {
		isSubscribed, err = s.subscriptions.IsSubscribed(ctx, user.ID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("channel profile: check subscription: %w", err)
		}
	}

	return &domain.ChannelProfile{
		User:            user.Public(),
		SubscriberCount: subscribers,
		SubscribedTo:    subscribedTo,
		IsSubscribed:    isSubscribed,
	}, nil
}

// WatchHistory returns the user's viewing sequence in order, each entry
// joined with the public subset of the video's owner.
func (s *ProfileService) WatchHistory(ctx context.Context, userID string) ([]domain.VideoSummary, error) {
	ids, err := s.users.WatchHistoryIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.VideoSummary{}, nil
	}

	videos, err := s.videos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("watch history: %w", err)
	}

	// One owner lookup per distinct uploader.
	owners := make(map[string]domain.OwnerSummary)
	summaries := make([]domain.VideoSummary, 0, len(videos))
	for _, v := range videos {
		owner, ok := owners[v.Owner]
		if !ok {
			ou, err := s.users.FindByID(ctx, v.Owner)
			if err != nil {
				s.log.Warn().Err(err).Str("video_id", v.ID).Str("owner_id", v.Owner).Msg("watch history: owner lookup failed")
				owner = domain.OwnerSummary{ID: v.Owner}
			} else {
				owner = ou.Owner()
			}
			owners[v.Owner] = owner
		}
		summaries = append(summaries, domain.VideoSummary{
			ID:        v.ID,
			Title:     v.Title,
			URL:       v.URL,
			Thumbnail: v.Thumbnail,
			Owner:     owner,
		})
	}
	return summaries, nil
}

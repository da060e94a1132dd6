package ports

import "context"

// SubscriptionRepository answers aggregate questions over subscription
// edges. The actual traversal/aggregation is delegated to the database.
type SubscriptionRepository interface {
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error)
	IsSubscribed(ctx context.Context, channelID, subscriberID string) (bool, error)
}

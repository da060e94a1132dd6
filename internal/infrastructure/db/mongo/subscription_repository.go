package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clipstream/video-platform/internal/core/domain"
)

const subscriptionsCollection = "subscriptions"

// SubscriptionRepository answers count/membership queries over the
// subscriber→channel edges. Only active edges count.
type SubscriptionRepository struct {
	coll *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{coll: db.Collection(subscriptionsCollection)}
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(channelID)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}
	return r.count(ctx, bson.M{"channel": oid, "status": domain.SubscriptionActive})
}

func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(subscriberID)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}
	return r.count(ctx, bson.M{"subscriber": oid, "status": domain.SubscriptionActive})
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, channelID, subscriberID string) (bool, error) {
	channel, err := primitive.ObjectIDFromHex(channelID)
	if err != nil {
		return false, domain.ErrUserNotFound
	}
	subscriber, err := primitive.ObjectIDFromHex(subscriberID)
	if err != nil {
		return false, domain.ErrUserNotFound
	}

	n, err := r.count(ctx, bson.M{
		"channel":    channel,
		"subscriber": subscriber,
		"status":     domain.SubscriptionActive,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SubscriptionRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return n, nil
}

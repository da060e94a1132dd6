package domain

import "time"

// SubscriptionStatus marks whether a subscription edge still counts.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// Subscription is a directed "subscriber follows channel" edge between two
// users. Only active edges contribute to channel-profile counts.
type Subscription struct {
	ID         string             `json:"id" bson:"_id,omitempty"`
	Subscriber string             `json:"subscriber" bson:"subscriber"`
	Channel    string             `json:"channel" bson:"channel"`
	Status     SubscriptionStatus `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// ChannelProfile aggregates subscription edges for one channel as seen by an
// optional viewer.
type ChannelProfile struct {
	User            PublicUser `json:"user"`
	SubscriberCount int64      `json:"subscriber_count"`
	SubscribedTo    int64      `json:"subscribed_to"`
	IsSubscribed    bool       `json:"is_subscribed"`
}

package domain

import "time"

// Video is one uploaded media item. Read-only from the session core's
// perspective; created by the upload flow.
type Video struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	URL         string    `json:"url" bson:"url"`
	Thumbnail   string    `json:"thumbnail" bson:"thumbnail"`
	Owner       string    `json:"owner" bson:"owner"`
	Channel     string    `json:"channel" bson:"channel"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// VideoSummary is a video joined with the public subset of its owner, as
// returned by watch-history reads.
type VideoSummary struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	Thumbnail string       `json:"thumbnail"`
	Owner     OwnerSummary `json:"owner"`
}

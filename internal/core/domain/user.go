package domain

import "time"

// User is the account aggregate. Username and email are stored lower-cased
// and are globally unique. PasswordHash and RefreshToken never leave the
// process; every outward representation goes through Public().
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	FirstName    string    `json:"first_name" bson:"first_name"`
	LastName     string    `json:"last_name" bson:"last_name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Avatar       string    `json:"avatar" bson:"avatar"`
	CoverImage   string    `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	RefreshToken string    `json:"-" bson:"refresh_token,omitempty"`
	WatchHistory []string  `json:"-" bson:"watch_history,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// PublicUser is the sanitized projection of a User: no password hash, no
// refresh token, no watch-history internals.
type PublicUser struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Public returns the sanitized projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
	}
}

// OwnerSummary is the subset of a user exposed when embedded in another
// resource, e.g. the uploader of a video in a watch-history listing.
type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Owner returns the embedded-owner subset of the user.
func (u *User) Owner() OwnerSummary {
	return OwnerSummary{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

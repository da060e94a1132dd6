package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUser_JSONNeverLeaksSecrets(t *testing.T) {
	u := User{
		ID:           "user_1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "bcrypt-hash-value",
		RefreshToken: "refresh-token-value",
		WatchHistory: []string{"video_1"},
		CreatedAt:    time.Now(),
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)

	for _, secret := range []string{"bcrypt-hash-value", "refresh-token-value", "password_hash", "refresh_token", "watch_history", "video_1"} {
		if strings.Contains(body, secret) {
			t.Fatalf("serialized user leaks %q: %s", secret, body)
		}
	}
}

func TestUser_Public(t *testing.T) {
	u := User{
		ID:         "user_1",
		Username:   "alice",
		FirstName:  "alice",
		LastName:   "smith",
		Email:      "alice@example.com",
		Avatar:     "https://cdn.test/avatars/a.png",
		CoverImage: "https://cdn.test/covers/a.jpg",
	}

	pub := u.Public()
	if pub.ID != u.ID || pub.Username != u.Username || pub.Email != u.Email {
		t.Fatalf("unexpected projection: %+v", pub)
	}
	if pub.Avatar != u.Avatar || pub.CoverImage != u.CoverImage {
		t.Fatalf("media urls missing from projection: %+v", pub)
	}
}

func TestUser_Owner(t *testing.T) {
	u := User{ID: "user_1", Username: "alice", Avatar: "https://cdn.test/avatars/a.png"}

	owner := u.Owner()
	if owner.ID != "user_1" || owner.Username != "alice" || owner.Avatar != u.Avatar {
		t.Fatalf("unexpected owner summary: %+v", owner)
	}
}

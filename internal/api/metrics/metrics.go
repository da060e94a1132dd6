// Package metrics defines and registers all custom Prometheus metrics for
// the clipstream API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clipstream"

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "ok", "conflict", "invalid", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "denied", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts refresh-token rotations.
// Label:
//   - result: "ok" or "denied" ("denied" includes stale/replayed tokens)
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of refresh-token rotations, by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts password-reset mail dispatches.
// Label:
//   - result: "ok" or "error"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password-reset mails dispatched, by result.",
	},
	[]string{"result"},
)

// MediaUploadsTotal counts uploads to the object store.
// Labels:
//   - kind: target folder ("avatars", "covers", "videos", "thumbnails")
//   - result: "ok" or "error"
var MediaUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Total number of media uploads, by kind and result.",
	},
	[]string{"kind", "result"},
)

// MediaUploadDuration measures how long a single object-store upload takes.
// Label:
//   - kind: target folder
var MediaUploadDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "media_upload_duration_seconds",
		Help:      "Duration of object-store uploads.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

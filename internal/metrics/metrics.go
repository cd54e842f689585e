package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topichub_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	refreshRotations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topichub_refresh_rotations_total",
		Help: "Number of refresh rotations grouped by status.",
	}, []string{"status"})

	topicPersists = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topichub_topic_persists_total",
		Help: "Topic save/publish operations grouped by target status and outcome.",
	}, []string{"target", "outcome"})

	topicDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topichub_topic_deletes_total",
		Help: "Topic delete operations grouped by outcome.",
	}, []string{"outcome"})

	thumbnailUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topichub_thumbnail_uploads_total",
		Help: "Thumbnail blob uploads grouped by outcome.",
	}, []string{"outcome"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topichub_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncRefresh increments the refresh rotation counter.
func IncRefresh(status string) {
	refreshRotations.WithLabelValues(status).Inc()
}

// IncPersist increments the topic persist counter.
func IncPersist(target, outcome string) {
	topicPersists.WithLabelValues(target, outcome).Inc()
}

// IncDelete increments the topic delete counter.
func IncDelete(outcome string) {
	topicDeletes.WithLabelValues(outcome).Inc()
}

// IncThumbnailUpload increments the thumbnail upload counter.
func IncThumbnailUpload(outcome string) {
	thumbnailUploads.WithLabelValues(outcome).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}

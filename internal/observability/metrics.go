// Package observability exposes Prometheus metrics for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mosaic_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PostsCreated counts posts created through the add-post flow.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mosaic_posts_created_total",
		Help: "Total number of posts created",
	})

	// CommentsCreated counts comments created through the comment flow.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mosaic_comments_created_total",
		Help: "Total number of comments created",
	})

	// LikesRecorded counts accepted like mutations (duplicates excluded).
	LikesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mosaic_likes_recorded_total",
		Help: "Total number of likes recorded",
	})

	// LoginAttempts counts login attempts by outcome (success, invalid_form, not_found).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mosaic_login_attempts_total",
		Help: "Total login attempts by outcome",
	}, []string{"outcome"})
)

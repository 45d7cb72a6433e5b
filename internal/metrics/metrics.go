// Package metrics holds the Prometheus collectors of the engagement service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Reactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "engagement",
		Name:      "reactions_total",
		Help:      "Reaction toggles by target kind and outcome.",
	}, []string{"target", "outcome"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "engagement",
		Name:      "notifications_total",
		Help:      "Notifications committed, by type.",
	}, []string{"type"})

	PushEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "engagement",
		Name:      "push_events_total",
		Help:      "Push events handled by the dispatcher, by result.",
	}, []string{"result"})

	PushSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "engagement",
		Name:      "push_sessions",
		Help:      "Open push sessions on this instance.",
	})

	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "engagement",
		Name:      "comment_tree_cache_total",
		Help:      "Comment tree cache lookups and skipped stale writes, by result.",
	}, []string{"result"})
)

// Push event results.
const (
	PushDelivered = "delivered"
	PushNoSession = "no_session"
	PushDropped   = "dropped"
	PushRelayed   = "relayed"
	PushFailed    = "failed"
)

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RegistryMetrics records item intake, matching, and notification activity.
type RegistryMetrics struct {
	itemsSubmitted *prometheus.CounterVec
	itemsClaimed   prometheus.Counter
	matchScan      *prometheus.HistogramVec
	matchesFound   prometheus.Counter
	notifications  *prometheus.CounterVec
	claimAttempts  *prometheus.CounterVec
}

// NewRegistryMetrics registers the registry metrics on the provided registerer.
func NewRegistryMetrics(reg prometheus.Registerer) *RegistryMetrics {
	if reg == nil {
		return &RegistryMetrics{}
	}
	itemsSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "items_submitted_total",
		Help: "Items submitted to the registry.",
	}, []string{"type"})
	itemsClaimed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "items_claimed_total",
		Help: "Items marked claimed.",
	})
	matchScan := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "match_scan_duration_seconds",
		Help:    "Duration of candidate scans run at item submission.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	matchesFound := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matches_found_total",
		Help: "Submissions that produced a cross-type match.",
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Notifications created, by kind.",
	}, []string{"kind"})
	claimAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "claim_attempts_total",
		Help: "Claim attempts, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(itemsSubmitted, itemsClaimed, matchScan, matchesFound, notifications, claimAttempts)
	return &RegistryMetrics{
		itemsSubmitted: itemsSubmitted,
		itemsClaimed:   itemsClaimed,
		matchScan:      matchScan,
		matchesFound:   matchesFound,
		notifications:  notifications,
		claimAttempts:  claimAttempts,
	}
}

// IncItemSubmitted increments the submission counter for the item type.
func (r *RegistryMetrics) IncItemSubmitted(itemType string) {
	if r == nil || r.itemsSubmitted == nil {
		return
	}
	r.itemsSubmitted.WithLabelValues(normalizeLabel(itemType)).Inc()
}

// IncItemClaimed increments the claimed counter.
func (r *RegistryMetrics) IncItemClaimed() {
	if r == nil || r.itemsClaimed == nil {
		return
	}
	r.itemsClaimed.Inc()
}

// ObserveMatchScan records how long the candidate scan took for the item type.
func (r *RegistryMetrics) ObserveMatchScan(itemType string, duration time.Duration) {
	if r == nil || r.matchScan == nil {
		return
	}
	r.matchScan.WithLabelValues(normalizeLabel(itemType)).Observe(duration.Seconds())
}

// IncMatchFound increments the match counter.
func (r *RegistryMetrics) IncMatchFound() {
	if r == nil || r.matchesFound == nil {
		return
	}
	r.matchesFound.Inc()
}

// IncNotificationCreated increments the notification counter for the given kind.
func (r *RegistryMetrics) IncNotificationCreated(kind string) {
	if r == nil || r.notifications == nil {
		return
	}
	r.notifications.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncClaimAttempt increments the claim attempt counter for the given outcome.
func (r *RegistryMetrics) IncClaimAttempt(outcome string) {
	if r == nil || r.claimAttempts == nil {
		return
	}
	r.claimAttempts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

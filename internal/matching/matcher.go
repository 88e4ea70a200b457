package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foundlyhq/foundly-backend/internal/notifications"
	"github.com/foundlyhq/foundly-backend/pkg/db/models"
	"github.com/foundlyhq/foundly-backend/pkg/enums"
	"github.com/foundlyhq/foundly-backend/pkg/logger"
	"github.com/foundlyhq/foundly-backend/pkg/metrics"
	"github.com/google/uuid"
)

type candidateLister interface {
	ListMatchCandidates(ctx context.Context, itemType enums.ItemType, excludeID uuid.UUID) ([]models.Item, error)
}

type notificationCreator interface {
	Create(ctx context.Context, params notifications.CreateParams) (*notifications.NotificationDTO, error)
}

// Matcher scans the registry after each submission and notifies the reporter
// of the first similar opposite-type item.
type Matcher struct {
	items         candidateLister
	notifications notificationCreator
	metrics       *metrics.RegistryMetrics
	logg          *logger.Logger
}

// MatcherParams bundles the dependencies required to build a matcher.
type MatcherParams struct {
	Items         candidateLister
	Notifications notificationCreator
	Metrics       *metrics.RegistryMetrics
	Logger        *logger.Logger
}

// NewMatcher constructs a matcher with the provided dependencies.
func NewMatcher(params MatcherParams) (*Matcher, error) {
	if params.Items == nil {
		return nil, fmt.Errorf("item candidate lister is required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notification creator is required")
	}
	return &Matcher{
		items:         params.Items,
		notifications: params.Notifications,
		metrics:       params.Metrics,
		logg:          params.Logger,
	}, nil
}

// ItemSubmitted runs the match scan for a freshly stored item. It never
// returns an error: matching is best-effort and must not fail the submission.
func (m *Matcher) ItemSubmitted(ctx context.Context, item *models.Item) {
	if item == nil {
		return
	}
	start := time.Now()
	defer func() {
		m.metrics.ObserveMatchScan(string(item.Type), time.Since(start))
	}()

	candidates, err := m.items.ListMatchCandidates(ctx, item.Type.Opposite(), item.ID)
	if err != nil {
		m.warn(ctx, item, "listing match candidates failed", err)
		return
	}

	candidate := firstMatch(item, candidates)
	if candidate == nil {
		return
	}

	_, err = m.notifications.Create(ctx, notifications.CreateParams{
		ForUserID:      candidate.ReporterID,
		Title:          fmt.Sprintf("Possible match for your item %q", candidate.Name),
		Message:        fmt.Sprintf("A similar item was just reported: %q.", item.Name),
		MatchedItemIDs: []uuid.UUID{item.ID},
		Kind:           notifications.KindMatch,
	})
	if err != nil {
		m.warn(ctx, item, "creating match notification failed", err)
		return
	}
	m.metrics.IncMatchFound()
}

// firstMatch returns the earliest-inserted candidate whose name is a
// case-insensitive substring of the new item's name or vice versa. Candidates
// reported by the submitter are skipped so users never get notified about
// their own reports.
func firstMatch(item *models.Item, candidates []models.Item) *models.Item {
	name := strings.ToLower(item.Name)
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.ReporterID == item.ReporterID {
			continue
		}
		candidateName := strings.ToLower(candidate.Name)
		if strings.Contains(candidateName, name) || strings.Contains(name, candidateName) {
			return candidate
		}
	}
	return nil
}

func (m *Matcher) warn(ctx context.Context, item *models.Item, msg string, err error) {
	if m.logg == nil {
		return
	}
	m.logg.Error(m.logg.WithItemID(ctx, item.ID.String()), msg, err)
}

package notifications

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/foundlyhq/foundly-backend/pkg/db/models"
	dbtypes "github.com/foundlyhq/foundly-backend/pkg/db/types"
	pkgerrors "github.com/foundlyhq/foundly-backend/pkg/errors"
	"github.com/foundlyhq/foundly-backend/pkg/logger"
	"github.com/foundlyhq/foundly-backend/pkg/metrics"
	"github.com/foundlyhq/foundly-backend/pkg/pagination"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// badgeTTL bounds staleness of the cached unseen count.
const badgeTTL = 30 * time.Second

// Service defines notification lifecycle operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*NotificationDTO, error)
	ListFor(ctx context.Context, params ListParams) (*ListResult, error)
	MarkSeen(ctx context.Context, userID, notificationID uuid.UUID) error
	Dismiss(ctx context.Context, userID, notificationID uuid.UUID) error
	UnseenCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type badgeCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	BadgeKey(userID string) string
}

type service struct {
	repo    Repository
	badges  badgeCache
	metrics *metrics.RegistryMetrics
	logg    *logger.Logger
}

// CreateParams carries a new alert. Kind feeds metrics only.
type CreateParams struct {
	ForUserID      uuid.UUID
	Title          string
	Message        string
	MatchedItemIDs []uuid.UUID
	Kind           string
}

// ListParams configures pagination for a user's notifications.
type ListParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     string
	UnseenOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []NotificationDTO `json:"items"`
	Cursor string            `json:"cursor,omitempty"`
}

// ServiceParams bundles the dependencies required to build a notifications service.
type ServiceParams struct {
	Repo    Repository
	Badges  badgeCache
	Metrics *metrics.RegistryMetrics
	Logger  *logger.Logger
}

// NewService wires notifications dependencies. The badge cache is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{
		repo:    params.Repo,
		badges:  params.Badges,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*NotificationDTO, error) {
	if params.ForUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if len(params.MatchedItemIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one matched item required")
	}

	notification := &models.Notification{
		ID:             uuid.New(),
		ForUserID:      params.ForUserID,
		Title:          params.Title,
		Message:        params.Message,
		MatchedItemIDs: dbtypes.UUIDArray(params.MatchedItemIDs),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}

	s.metrics.IncNotificationCreated(params.Kind)
	s.invalidateBadge(ctx, params.ForUserID)

	return FromModel(notification), nil
}

func (s *service) ListFor(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listNotificationsParams{
		ForUserID:  params.UserID,
		Limit:      params.Limit,
		UnseenOnly: params.UnseenOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  FromModels(rows),
		Cursor: cursor,
	}, nil
}

// MarkSeen flips the seen flag. Already-seen and unknown notifications are
// quiet no-ops rather than errors.
func (s *service) MarkSeen(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil || notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and notification id required")
	}

	result, err := s.repo.MarkSeen(ctx, userID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification seen")
	}
	if result.Updated {
		s.invalidateBadge(ctx, userID)
	}
	return nil
}

// Dismiss removes the notification. Unknown ids are a quiet no-op.
func (s *service) Dismiss(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil || notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and notification id required")
	}

	deleted, err := s.repo.Delete(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dismiss notification")
	}
	if deleted > 0 {
		s.invalidateBadge(ctx, userID)
	}
	return nil
}

func (s *service) UnseenCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	if s.badges != nil {
		cached, err := s.badges.Get(ctx, s.badges.BadgeKey(userID.String()))
		if err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		} else if !errors.Is(err, redislib.Nil) && s.logg != nil {
			s.logg.Warn(ctx, "badge cache read failed")
		}
	}

	count, err := s.repo.CountUnseen(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unseen notifications")
	}

	if s.badges != nil {
		if err := s.badges.Set(ctx, s.badges.BadgeKey(userID.String()), count, badgeTTL); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "badge cache write failed")
		}
	}
	return count, nil
}

func (s *service) invalidateBadge(ctx context.Context, userID uuid.UUID) {
	if s.badges == nil {
		return
	}
	if err := s.badges.Del(ctx, s.badges.BadgeKey(userID.String())); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "badge cache invalidation failed")
	}
}

package claims

import (
	"context"
	"errors"
	"fmt"

	"github.com/foundlyhq/foundly-backend/internal/notifications"
	"github.com/foundlyhq/foundly-backend/pkg/db/models"
	"github.com/foundlyhq/foundly-backend/pkg/enums"
	pkgerrors "github.com/foundlyhq/foundly-backend/pkg/errors"
	"github.com/foundlyhq/foundly-backend/pkg/metrics"
	"github.com/foundlyhq/foundly-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claim attempt outcomes recorded in metrics.
const (
	outcomeAccepted       = "accepted"
	outcomeNotFound       = "not_found"
	outcomeOwnItem        = "own_item"
	outcomeAlreadyClaimed = "already_claimed"
)

type itemFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type notificationCreator interface {
	Create(ctx context.Context, params notifications.CreateParams) (*notifications.NotificationDTO, error)
}

// Service records claim attempts against other users' items. A claim is
// advisory: it notifies the reporter and never touches the item's status.
type Service interface {
	CreateClaim(ctx context.Context, actor types.Actor, itemID uuid.UUID) (*notifications.NotificationDTO, error)
}

type service struct {
	items         itemFinder
	users         userFinder
	notifications notificationCreator
	metrics       *metrics.RegistryMetrics
}

// ServiceParams bundles the dependencies required to build a claims service.
type ServiceParams struct {
	Items         itemFinder
	Users         userFinder
	Notifications notificationCreator
	Metrics       *metrics.RegistryMetrics
}

// NewService constructs a claims service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Items == nil {
		return nil, fmt.Errorf("item finder is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user finder is required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notification creator is required")
	}
	return &service{
		items:         params.Items,
		users:         params.Users,
		notifications: params.Notifications,
		metrics:       params.Metrics,
	}, nil
}

func (s *service) CreateClaim(ctx context.Context, actor types.Actor, itemID uuid.UUID) (*notifications.NotificationDTO, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncClaimAttempt(outcomeNotFound)
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup item")
	}

	if item.ReporterID == actor.UserID {
		s.metrics.IncClaimAttempt(outcomeOwnItem)
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot claim your own item")
	}
	if item.Status == enums.ItemStatusClaimed {
		s.metrics.IncClaimAttempt(outcomeAlreadyClaimed)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item is already claimed")
	}

	claimant, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown claimant")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup claimant")
	}

	notification, err := s.notifications.Create(ctx, notifications.CreateParams{
		ForUserID:      item.ReporterID,
		Title:          fmt.Sprintf("Claim attempt for %q", item.Name),
		Message:        fmt.Sprintf("%s (ID: %s) wants to claim this item.", claimant.Name, claimant.CampusID),
		MatchedItemIDs: []uuid.UUID{item.ID},
		Kind:           notifications.KindClaim,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create claim notification")
	}

	s.metrics.IncClaimAttempt(outcomeAccepted)
	return notification, nil
}

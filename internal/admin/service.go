package admin

import (
	"context"
	"fmt"

	"github.com/foundlyhq/foundly-backend/pkg/enums"
	pkgerrors "github.com/foundlyhq/foundly-backend/pkg/errors"
)

// OverviewDTO is the registry-wide summary served to administrators.
type OverviewDTO struct {
	Users        int64 `json:"users"`
	ActiveItems  int64 `json:"active_items"`
	ClaimedItems int64 `json:"claimed_items"`
}

type userCounter interface {
	Count(ctx context.Context) (int64, error)
}

type itemCounter interface {
	CountByStatus(ctx context.Context) (map[enums.ItemStatus]int64, error)
}

// Service exposes the admin-only registry overview.
type Service interface {
	Overview(ctx context.Context) (*OverviewDTO, error)
}

type service struct {
	users userCounter
	items itemCounter
}

// ServiceParams bundles the dependencies required to build an admin service.
type ServiceParams struct {
	Users userCounter
	Items itemCounter
}

// NewService constructs an admin service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user counter is required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("item counter is required")
	}
	return &service{users: params.Users, items: params.Items}, nil
}

func (s *service) Overview(ctx context.Context) (*OverviewDTO, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}

	itemCounts, err := s.items.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count items")
	}

	return &OverviewDTO{
		Users:        userCount,
		ActiveItems:  itemCounts[enums.ItemStatusActive],
		ClaimedItems: itemCounts[enums.ItemStatusClaimed],
	}, nil
}

package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foundlyhq/foundly-backend/pkg/db/models"
	"github.com/foundlyhq/foundly-backend/pkg/enums"
	pkgerrors "github.com/foundlyhq/foundly-backend/pkg/errors"
	"github.com/foundlyhq/foundly-backend/pkg/logger"
	"github.com/foundlyhq/foundly-backend/pkg/metrics"
	"github.com/foundlyhq/foundly-backend/pkg/pagination"
	"github.com/foundlyhq/foundly-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const reportedOnLayout = "2006-01-02"

// SubmitItemRequest carries a new report. Image fields are optional.
type SubmitItemRequest struct {
	Type        enums.ItemType `json:"type" validate:"required"`
	Name        string         `json:"name" validate:"required"`
	Location    string         `json:"location" validate:"required"`
	Description *string        `json:"description,omitempty"`
	ReportedOn  string         `json:"reported_on,omitempty"`
	ImageData   []byte         `json:"-"`
	ImageMime   string         `json:"-"`
}

// QueryRequest narrows the public registry listing.
type QueryRequest struct {
	Status string
	Search string
	Limit  int
	Cursor string
}

// ItemListResponse is a cursor page of items.
type ItemListResponse struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ItemImage is the stored binary payload for an item.
type ItemImage struct {
	Data []byte
	Mime string
}

// Service defines the behavior needed by the items controller.
type Service interface {
	SubmitItem(ctx context.Context, actor types.Actor, reporterName string, req SubmitItemRequest) (*ItemDTO, error)
	MarkClaimed(ctx context.Context, actor types.Actor, itemID uuid.UUID) error
	Query(ctx context.Context, req QueryRequest) (*ItemListResponse, error)
	ItemsByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ItemListResponse, error)
	GetImage(ctx context.Context, itemID uuid.UUID) (*ItemImage, error)
}

type itemRepository interface {
	Create(ctx context.Context, dto CreateItemDTO) (*models.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	MarkClaimed(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]models.Item, string, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID, params pagination.Params) ([]models.Item, string, error)
}

// SubmissionObserver is notified after every successful item submission.
type SubmissionObserver interface {
	ItemSubmitted(ctx context.Context, item *models.Item)
}

type service struct {
	repo     itemRepository
	observer SubmissionObserver
	metrics  *metrics.RegistryMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an items service.
type ServiceParams struct {
	Repo     itemRepository
	Observer SubmissionObserver
	Metrics  *metrics.RegistryMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewService constructs an items service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("items repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		observer: params.Observer,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) SubmitItem(ctx context.Context, actor types.Actor, reporterName string, req SubmitItemRequest) (*ItemDTO, error) {
	if !req.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be lost or found")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}

	reportedOn := strings.TrimSpace(req.ReportedOn)
	if reportedOn == "" {
		reportedOn = s.now().UTC().Format(reportedOnLayout)
	} else if _, err := time.Parse(reportedOnLayout, reportedOn); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reported_on must be YYYY-MM-DD")
	}

	var description *string
	if req.Description != nil {
		if trimmed := strings.TrimSpace(*req.Description); trimmed != "" {
			description = &trimmed
		}
	}

	item, err := s.repo.Create(ctx, CreateItemDTO{
		Type:         req.Type,
		Name:         name,
		Location:     location,
		Description:  description,
		ReportedOn:   reportedOn,
		ReporterName: reporterName,
		ReporterID:   actor.UserID,
		ImageData:    req.ImageData,
		ImageMime:    req.ImageMime,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}

	s.metrics.IncItemSubmitted(string(item.Type))

	if s.observer != nil {
		// Matching runs on the submit path but never fails the submission.
		s.observer.ItemSubmitted(ctx, item)
	}

	return FromModel(item), nil
}

func (s *service) MarkClaimed(ctx context.Context, actor types.Actor, itemID uuid.UUID) error {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup item")
	}

	if item.ReporterID != actor.UserID && !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the reporter or an admin can mark an item claimed")
	}
	if item.Status == enums.ItemStatusClaimed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "item is already claimed")
	}

	affected, err := s.repo.MarkClaimed(ctx, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark item claimed")
	}
	if affected == 0 {
		// Lost the race to another claimer.
		return pkgerrors.New(pkgerrors.CodeStateConflict, "item is already claimed")
	}

	s.metrics.IncItemClaimed()
	return nil
}

func (s *service) Query(ctx context.Context, req QueryRequest) (*ItemListResponse, error) {
	rows, next, err := s.repo.List(ctx, ListFilter{
		Status: req.Status,
		Search: req.Search,
		Limit:  req.Limit,
		Cursor: req.Cursor,
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	return &ItemListResponse{Items: FromModels(rows), NextCursor: next}, nil
}

func (s *service) ItemsByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ItemListResponse, error) {
	rows, next, err := s.repo.ListByReporter(ctx, ownerID, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list own items")
	}
	return &ItemListResponse{Items: FromModels(rows), NextCursor: next}, nil
}

func (s *service) GetImage(ctx context.Context, itemID uuid.UUID) (*ItemImage, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup item")
	}
	if !item.HasImage() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item has no image")
	}
	return &ItemImage{Data: item.ImageData, Mime: item.ImageMime}, nil
}

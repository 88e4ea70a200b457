package items

import (
	"context"
	"fmt"
	"strings"

	"github.com/foundlyhq/foundly-backend/internal/repo"
	"github.com/foundlyhq/foundly-backend/pkg/db/models"
	"github.com/foundlyhq/foundly-backend/pkg/enums"
	pkgerrors "github.com/foundlyhq/foundly-backend/pkg/errors"
	"github.com/foundlyhq/foundly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes item-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs an items repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new item and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateItemDTO) (*models.Item, error) {
	item := dto.ToModel()
	if err := r.DB(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads an item by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// MarkClaimed flips an active item to claimed and reports how many rows changed.
// Zero rows means the item was missing or already claimed.
func (r *Repository) MarkClaimed(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Item{}).
		Where("id = ? AND status = ?", id, enums.ItemStatusActive).
		Update("status", enums.ItemStatusClaimed)
	return result.RowsAffected, result.Error
}

// List returns a page of items matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Item, string, error) {
	query := r.DB(ctx).Model(&models.Item{})

	switch status := strings.ToLower(strings.TrimSpace(filter.Status)); status {
	case "":
	case string(enums.ItemStatusActive), string(enums.ItemStatusClaimed):
		query = query.Where("status = ?", status)
	case string(enums.ItemTypeLost), string(enums.ItemTypeFound):
		// Type-derived filters exclude claimed items.
		query = query.Where("type = ? AND status <> ?", status, enums.ItemStatusClaimed)
	default:
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status filter %q", filter.Status))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern)
	}

	return r.paginate(ctx, query, filter.Limit, filter.Cursor)
}

// ListByReporter returns the reporter's own items, newest first.
func (r *Repository) ListByReporter(ctx context.Context, reporterID uuid.UUID, params pagination.Params) ([]models.Item, string, error) {
	query := r.DB(ctx).
		Model(&models.Item{}).
		Where("reporter_id = ?", reporterID)
	return r.paginate(ctx, query, params.Limit, params.Cursor)
}

// ListMatchCandidates returns non-claimed items of the given type in insertion
// order, excluding the provided item.
func (r *Repository) ListMatchCandidates(ctx context.Context, itemType enums.ItemType, excludeID uuid.UUID) ([]models.Item, error) {
	var candidates []models.Item
	err := r.DB(ctx).
		Where("type = ? AND status <> ? AND id <> ?", itemType, enums.ItemStatusClaimed, excludeID).
		Order("created_at ASC, id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// CountByStatus tallies items grouped by their current status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.ItemStatus]int64, error) {
	var rows []struct {
		Status enums.ItemStatus
		Total  int64
	}
	err := r.DB(ctx).
		Model(&models.Item{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.ItemStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *Repository) paginate(ctx context.Context, query *gorm.DB, limit int, cursorValue string) ([]models.Item, string, error) {
	cursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	fetch := pagination.LimitWithBuffer(limit)
	var rows []models.Item
	if err := query.Order("created_at DESC, id DESC").Limit(fetch).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) == fetch {
		rows = rows[:fetch-1]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return rows, nextCursor, nil
}

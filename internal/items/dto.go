package items

import (
	"time"

	"github.com/google/uuid"

	"github.com/foundlyhq/foundly-backend/pkg/db/models"
	"github.com/foundlyhq/foundly-backend/pkg/enums"
)

// ItemDTO is the transport shape for a registered item. Image bytes are not
// inlined; clients fetch them from the image endpoint when HasImage is true.
type ItemDTO struct {
	ID           uuid.UUID        `json:"id"`
	Type         enums.ItemType   `json:"type"`
	Name         string           `json:"name"`
	Location     string           `json:"location"`
	Description  *string          `json:"description,omitempty"`
	ReportedOn   string           `json:"reported_on"`
	ReporterName string           `json:"reporter_name"`
	ReporterID   uuid.UUID        `json:"reporter_id"`
	Status       enums.ItemStatus `json:"status"`
	HasImage     bool             `json:"has_image"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// CreateItemDTO holds the data required by the repo to persist a new item.
type CreateItemDTO struct {
	Type         enums.ItemType
	Name         string
	Location     string
	Description  *string
	ReportedOn   string
	ReporterName string
	ReporterID   uuid.UUID
	ImageData    []byte
	ImageMime    string
}

// ListFilter narrows a registry query.
type ListFilter struct {
	// Status accepts the stored statuses plus the type-derived values
	// "lost" and "found", which exclude claimed items.
	Status string
	Search string
	Limit  int
	Cursor string
}

func FromModel(item *models.Item) *ItemDTO {
	if item == nil {
		return nil
	}

	return &ItemDTO{
		ID:           item.ID,
		Type:         item.Type,
		Name:         item.Name,
		Location:     item.Location,
		Description:  item.Description,
		ReportedOn:   item.ReportedOn,
		ReporterName: item.ReporterName,
		ReporterID:   item.ReporterID,
		Status:       item.Status,
		HasImage:     item.HasImage(),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func FromModels(items []models.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}

func (c CreateItemDTO) ToModel() *models.Item {
	return &models.Item{
		ID:           uuid.New(),
		Type:         c.Type,
		Name:         c.Name,
		Location:     c.Location,
		Description:  c.Description,
		ReportedOn:   c.ReportedOn,
		ReporterName: c.ReporterName,
		ReporterID:   c.ReporterID,
		Status:       enums.ItemStatusActive,
		ImageData:    c.ImageData,
		ImageMime:    c.ImageMime,
	}
}

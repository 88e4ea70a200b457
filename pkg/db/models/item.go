package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/foundlyhq/foundly-backend/pkg/enums"
)

// Item is a lost or found report. Status only ever moves active -> claimed.
// The optional image payload is stored inline and resolved before the row is
// inserted, so an item is never visible without its image.
type Item struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Type         enums.ItemType   `gorm:"type:text;not null;index"`
	Name         string           `gorm:"type:text;not null"`
	Location     string           `gorm:"type:text;not null"`
	Description  *string          `gorm:"type:text"`
	ReportedOn   string           `gorm:"column:reported_on;type:text;not null"` // YYYY-MM-DD
	ReporterName string           `gorm:"column:reporter_name;type:text;not null"`
	ReporterID   uuid.UUID        `gorm:"column:reporter_id;type:uuid;not null;index"`
	Status       enums.ItemStatus `gorm:"type:text;not null;index"`
	ImageData    []byte           `gorm:"column:image_data"`
	ImageMime    string           `gorm:"column:image_mime;type:text"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// HasImage reports whether an inline image payload was stored with the report.
func (i *Item) HasImage() bool {
	return i != nil && len(i.ImageData) > 0 && i.ImageMime != ""
}

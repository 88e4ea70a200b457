package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/foundlyhq/foundly-backend/pkg/enums"
)

// User represents the canonical identity entity. Registration data is
// immutable; only last_login_at changes after creation.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name         string         `gorm:"type:text;not null"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	CampusID     string         `gorm:"column:campus_id;type:text;not null;uniqueIndex"`
	Role         enums.UserRole `gorm:"type:text;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

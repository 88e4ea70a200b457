package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/foundlyhq/foundly-backend/pkg/db/types"
)

// Notification is an in-app alert addressed to a single recipient. seen_at is
// nil until the recipient marks it seen; the flag never clears again.
type Notification struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ForUserID      uuid.UUID         `gorm:"column:for_user_id;type:uuid;not null;index"`
	Title          string            `gorm:"type:text;not null"`
	Message        string            `gorm:"type:text;not null"`
	MatchedItemIDs dbtypes.UUIDArray `gorm:"column:matched_item_ids;type:text;not null"`
	SeenAt         *time.Time        `gorm:"column:seen_at"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// Seen reports whether the recipient has acknowledged the notification.
func (n *Notification) Seen() bool {
	return n != nil && n.SeenAt != nil
}

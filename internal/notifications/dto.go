package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/foundlyhq/foundly-backend/pkg/db/models"
)

// Notification kinds used for metrics labels.
const (
	KindMatch = "match"
	KindClaim = "claim"
)

// NotificationDTO is the transport shape for a stored alert.
type NotificationDTO struct {
	ID             uuid.UUID   `json:"id"`
	ForUserID      uuid.UUID   `json:"for_user_id"`
	Title          string      `json:"title"`
	Message        string      `json:"message"`
	MatchedItemIDs []uuid.UUID `json:"matched_item_ids"`
	Seen           bool        `json:"seen"`
	SeenAt         *time.Time  `json:"seen_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

func FromModel(n *models.Notification) *NotificationDTO {
	if n == nil {
		return nil
	}

	return &NotificationDTO{
		ID:             n.ID,
		ForUserID:      n.ForUserID,
		Title:          n.Title,
		Message:        n.Message,
		MatchedItemIDs: append([]uuid.UUID(nil), n.MatchedItemIDs...),
		Seen:           n.Seen(),
		SeenAt:         n.SeenAt,
		CreatedAt:      n.CreatedAt,
	}
}

func FromModels(rows []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

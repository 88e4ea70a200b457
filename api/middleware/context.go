package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/foundlyhq/foundly-backend/pkg/enums"
	"github.com/foundlyhq/foundly-backend/pkg/types"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxRole     contextKey = "actor_role"
	ctxCampusID contextKey = "campus_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func CampusIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCampusID).(string); ok {
		return v
	}
	return ""
}

// ActorFromContext rebuilds the authenticated actor placed in the context by
// the Auth middleware. The boolean is false when no valid actor is present.
func ActorFromContext(ctx context.Context) (types.Actor, bool) {
	userID, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil || userID == uuid.Nil {
		return types.Actor{}, false
	}
	return types.Actor{
		UserID:   userID,
		CampusID: CampusIDFromContext(ctx),
		Role:     enums.UserRole(RoleFromContext(ctx)),
	}, true
}

// WithActor injects the actor's identity fields into the context.
func WithActor(ctx context.Context, actor types.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, actor.UserID.String())
	ctx = context.WithValue(ctx, ctxRole, string(actor.Role))
	return context.WithValue(ctx, ctxCampusID, actor.CampusID)
}

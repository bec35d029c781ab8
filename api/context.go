package api

import (
	"context"

	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
)

type keyType string

const (
	userIDKey keyType = "userID"
	roleKey   keyType = "role"
)

// ctxWithIdentity adds the authenticated user's ID and role to the context
func ctxWithIdentity(ctx context.Context, userID uuid.UUID, role models.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// ctxGetUserID retrieves the authenticated user ID, if any
func ctxGetUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func ctxGetRole(ctx context.Context) models.Role {
	role, _ := ctx.Value(roleKey).(models.Role)
	return role
}

func ctxIsAdmin(ctx context.Context) bool {
	return ctxGetRole(ctx) == models.RoleAdmin
}

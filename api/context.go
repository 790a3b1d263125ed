package api

import (
	"context"

	"github.com/platefeed/platefeed-backend/models"
)

type keyType string

const principalKey keyType = "principal"

// ctxWithPrincipal attaches the authenticated user to the context
func ctxWithPrincipal(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

// principalFromCtx retrieves the authenticated user, if any. The viewer
// identity always flows through here explicitly; handlers never reach
// for ambient request state.
func principalFromCtx(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(principalKey).(*models.User)
	return user, ok && user != nil
}

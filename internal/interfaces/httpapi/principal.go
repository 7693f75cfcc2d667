package httpapi

import (
	"context"

	"github.com/riskibarqy/teamflow/internal/domain/user"
)

type principalKey struct{}

// principalSlot lets RequestLogging see the principal that RequireAuth
// resolves further down the chain on a derived request.
type principalSlot struct {
	principal user.Principal
}

type principalSlotKey struct{}

func withPrincipalSlot(ctx context.Context) (context.Context, *principalSlot) {
	slot := &principalSlot{}
	return context.WithValue(ctx, principalSlotKey{}, slot), slot
}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	if slot, ok := ctx.Value(principalSlotKey{}).(*principalSlot); ok {
		slot.principal = p
	}
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok && p.UserID != ""
}

// principalLogArgs returns the user_id pair for log lines, or nothing for
// anonymous requests.
func principalLogArgs(ctx context.Context) []any {
	if p, ok := principalFromContext(ctx); ok {
		return []any{"user_id", p.UserID}
	}
	return nil
}

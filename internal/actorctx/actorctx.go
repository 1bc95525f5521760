package actorctx

import "context"

type ctxKey struct{}

// Identity is the authenticated caller resolved by the auth gate.
type Identity struct {
	UserID   string
	Email    string
	FullName string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKey{}).(Identity)

	return v, ok && v.UserID != ""
}

func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := IdentityFrom(ctx)

	return id.UserID, ok
}

package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyEmail  ctxKey = "email"
)

// Identity is the verified principal behind a bearer token.
type Identity struct {
	UID   string
	Email string
}

// IdentityFromContext returns the identity placed by AuthnMiddleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	uid, ok := ctx.Value(CtxKeyUserID).(string)
	if !ok || uid == "" {
		return Identity{}, false
	}
	email, _ := ctx.Value(CtxKeyEmail).(string)
	return Identity{UID: uid, Email: email}, true
}

// ContextWithIdentity stores id for downstream handlers.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, id.UID)
	ctx = context.WithValue(ctx, CtxKeyEmail, id.Email)
	return ctx
}

package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/lunch/pkg/slogx"
)

// IdentityVerifier turns a raw bearer token into an Identity.
type IdentityVerifier func(ctx context.Context, token string) (Identity, error)

// AuthnMiddleware attaches the caller identity when a valid bearer token is
// present. Requests without one, or with a token that fails verification,
// continue anonymously; handlers decide whether that is acceptable.
func AuthnMiddleware(verify IdentityVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			id, err := verify(ctx, raw)
			if err != nil || id.UID == "" {
				slogx.FromContext(ctx).Warn("bearer token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx = ContextWithIdentity(ctx, id)
			ctx = slogx.WithCaller(ctx, id.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}

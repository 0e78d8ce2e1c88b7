package middleware

import (
	"context"
	"net/http"

	"github.com/classdesk/authcore"
)

type identityContextKey struct{}

// IdentityFromContext returns the verified identity injected by [Guard].
func IdentityFromContext(ctx context.Context) (authcore.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(authcore.Identity)
	return identity, ok
}

// Guard verifies the request's bearer assertion and, when allowed is
// non-empty, requires the identity's role to be in it. Verification
// failures answer 401, role denials 403; the wrapped handler only ever
// sees requests with a verified identity in context.
func Guard(engine *authcore.Engine, allowed ...authcore.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := engine.VerifyBearer(r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if len(allowed) > 0 {
				if err := engine.RequireRole(identity, allowed...); err != nil {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is Guard restricted to administrators.
func RequireAdmin(engine *authcore.Engine) func(http.Handler) http.Handler {
	return Guard(engine, authcore.RoleAdmin)
}

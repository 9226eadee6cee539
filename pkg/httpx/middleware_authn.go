package httpx

import (
	"net/http"
	"strings"

	"github.com/classhubhq/classhub/pkg/jwtx"
	"github.com/classhubhq/classhub/pkg/slogx"
)

// AuthnMiddleware resolves the caller identity from a bearer session token.
// Requests without a valid token still reach the handler, just without an
// identity in context; the membership guard turns that into Unauthorized.
// This keeps public endpoints (health, accept-by-link landing) on the same
// chain.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				// A presented-but-invalid token is a hard failure, not an
				// anonymous request.
				log.Warn("session token rejected", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = ContextWithIdentity(ctx, Identity{
				UserID:      claims.Subject,
				Email:       claims.Email,
				DisplayName: claims.DisplayName,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}

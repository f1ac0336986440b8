package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/CesarGorge/mini-wallet-api/internal/httputil"
	"github.com/CesarGorge/mini-wallet-api/internal/token"
)

const ClaimsContextKey = "authClaims"

// Principal returns the verified claims placed in the context by the
// authentication gate.
func Principal(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*token.Claims)
	return claims, ok
}

// Authenticated rejects any request without a valid bearer token before it
// reaches a handler. The token's identity is self-asserted; no ownership
// check is applied beyond validity.
func Authenticated(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.WriteError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

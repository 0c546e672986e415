package httpx

import (
	"context"
	"net/http"
	"strings"

	"mangashelf/internal/auth"
	"mangashelf/internal/logging"
)

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}

// OptionalAuthMiddleware attaches the user to the context when a valid bearer
// token is present. Requests without a token pass through anonymously; a
// token that fails to parse is rejected.
func OptionalAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				logging.Ctx(r.Context()).Debug().Err(err).Msg("rejecting bearer token")
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
				return
			}

			ctx := ContextWithUser(r.Context(), claims.Sub, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that reached it without an authenticated user.
// It must run after OptionalAuthMiddleware.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFrom(r) == "" {
			JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProtectAccountScopes drops the userId query parameter from anonymous
// requests when it names a registered account, so that library is only
// reachable with the account's token. A failed lookup is treated as a match.
func ProtectAccountScopes(isAccount func(ctx context.Context, id string) (bool, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			id := strings.TrimSpace(q.Get("userId"))
			if UserIDFrom(r) != "" || id == "" {
				next.ServeHTTP(w, r)
				return
			}

			found, err := isAccount(r.Context(), id)
			if err != nil {
				logging.Ctx(r.Context()).Warn().Err(err).Msg("account lookup failed, ignoring userId")
				found = true
			}
			if !found {
				next.ServeHTTP(w, r)
				return
			}

			q.Del("userId")
			r2 := r.Clone(r.Context())
			r2.URL.RawQuery = q.Encode()
			next.ServeHTTP(w, r2)
		})
	}
}

package http

import (
	"context"
	"net/http"
	"strings"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/security"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ActorMiddleware reads the actor identity forwarded by the authentication
// proxy. Identity verification happens upstream; this only maps the role
// string onto the closed role set.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := r.Header.Get("X-Actor-Id")
		role, ok := domain.ParseRole(r.Header.Get("X-Actor-Role"))
		if actorID == "" || !ok {
			writeError(w, http.StatusUnauthorized, "missing or invalid actor identity")
			return
		}
		ctx := context.WithValue(r.Context(), actorContextKey, domain.Actor{ID: actorID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the actor placed by ActorMiddleware
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(domain.Actor)
	return actor, ok
}

// SweepAuthMiddleware guards the scheduled-sweep trigger with a bearer
// secret compared in constant time
func SweepAuthMiddleware(bearerSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || !security.SecureCompare(token, bearerSecret) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

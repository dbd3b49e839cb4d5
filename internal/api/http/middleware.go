package http

import (
	"context"
	"net/http"
	"strings"

	"rentaldesk-backend/internal/logger"
	"rentaldesk-backend/internal/security"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorMiddleware resolves who initiated the request, for audit purposes
// only. A valid bearer token wins, then the X-Actor header; with neither
// the actor is recorded as anonymous. Authorization itself happens
// upstream of this service.
func ActorMiddleware(resolver security.ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ""
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				resolved, err := resolver.ActorFromToken(strings.TrimPrefix(auth, "Bearer "))
				if err != nil {
					logger.Debug("Could not resolve actor from token", "error", err)
				} else {
					actor = resolved
				}
			}
			if actor == "" {
				actor = r.Header.Get("X-Actor")
			}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFrom returns the audit actor attached to the request context.
func ActorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey).(string)
	return actor
}

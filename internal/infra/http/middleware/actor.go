package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/xavierca1/fortis-crm/internal/entity"
)

type actorKey struct{}

// ActorHeader carries the profile id of the logged user. Authentication
// happens upstream; the service only records who did what.
const ActorHeader = "X-User-ID"

func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get(ActorHeader))
		if actor == "" {
			actor = entity.SystemActor
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

func ActorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok && v != "" {
		return v
	}
	return entity.SystemActor
}

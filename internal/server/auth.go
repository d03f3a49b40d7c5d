package server

import (
	"context"
	"net/http"

	"github.com/moonhowl/werewolves/internal/game"
)

type ctxKey int

const ctxKeyPlayer ctxKey = iota

// authMiddleware resolves the caller from HTTP Basic credentials (player id
// as username, secret as password), stamps their activity, and rejects
// failures uniformly: unknown id and wrong secret are indistinguishable.
func authMiddleware(store *game.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, secret, ok := r.BasicAuth()
			if !ok {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			p, ok := store.Authenticate(id, secret)
			if !ok {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			p.Touch()

			ctx := context.WithValue(r.Context(), ctxKeyPlayer, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func playerFrom(r *http.Request) *game.Player {
	return r.Context().Value(ctxKeyPlayer).(*game.Player)
}

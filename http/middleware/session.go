package middleware

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/session"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context
// under checkpoint.SessionKey.
//
// A request whose session cannot be read passes through without one.
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer) Adapter {
	if store == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := store.GetSession(r)
			if err != nil {
				h.ServeHTTP(w, r)
				return
			}

			h.ServeHTTP(w, r.Clone(context.WithValue(r.Context(), checkpoint.SessionKey, s)))
		})
	}
}

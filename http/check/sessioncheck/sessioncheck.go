// Package sessioncheck provides a check approving requests whose session authenticates a principal.
package sessioncheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/session"
)

// Variant is the name the session check registers under.
const Variant = "session"

// A Check approves requests whose session carries a principal,
// passing the principal on.
//
// The session stashed on the request context by middleware.InjectSession is preferred;
// otherwise it is read from the store.
type Check struct {
	cfg   check.Config
	store session.SessionStorer
}

// Factory builds session checks reading sessions from store.
func Factory(store session.SessionStorer) check.Factory {
	return func(cfg check.Config) (check.Check, error) {
		if store == nil {
			return nil, fmt.Errorf("%w: session check requires a session store", checkpoint.ErrBadConfig)
		}

		return &Check{cfg: cfg, store: store}, nil
	}
}

func (c *Check) Config() check.Config { return c.cfg }

func (c *Check) Apply(ctx context.Context, _ check.Config, r *http.Request) (check.Result, error) {
	s, ok := ctx.Value(checkpoint.SessionKey).(session.Session)
	if !ok {
		var err error
		s, err = c.store.GetSession(r)
		if err != nil {
			return check.Reject(http.StatusUnauthorized, map[string]any{"message": "Invalid session"}), nil
		}
	}

	id, err := s.Principal()
	if errors.Is(err, session.ErrNoPrincipal) {
		return check.Reject(http.StatusUnauthorized, map[string]any{"message": "No session"}), nil
	}

	if err != nil {
		return check.Result{}, err
	}

	return check.Approve(map[string]any{"principal": id}), nil
}

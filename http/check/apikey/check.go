package apikey

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
)

// Variant is the name the api-key check registers under.
const Variant = "api-key"

const defaultHeader = "X-Api-Key"

// A Check approves requests whose API key names an enabled Credential,
// passing on the Credential's ID and owner.
//
// Config:
//
//	check:  identifier
//	header: the header carrying the key, "X-Api-Key" by default
//	param:  a query param also carrying the key, unset by default
type Check struct {
	cfg   check.Config
	store Store
}

// Factory builds api-key checks looking keys up in store.
func Factory(store Store) check.Factory {
	return func(cfg check.Config) (check.Check, error) {
		if store == nil {
			return nil, fmt.Errorf("%w: api-key check requires a store", checkpoint.ErrBadConfig)
		}

		return &Check{cfg: cfg, store: store}, nil
	}
}

func (c *Check) Config() check.Config { return c.cfg }

func (c *Check) Apply(ctx context.Context, cfg check.Config, r *http.Request) (check.Result, error) {
	key := keyFrom(cfg, r)
	if key == "" {
		return check.Reject(http.StatusUnauthorized, map[string]any{"message": "Missing API key"}), nil
	}

	cred, err := c.store.Lookup(ctx, key)
	if errors.Is(err, checkpoint.ErrNotExist) {
		return check.Reject(http.StatusUnauthorized, map[string]any{"message": "Invalid API key"}), nil
	}

	if err != nil {
		return check.Result{}, err
	}

	if cred.Disabled {
		return check.Reject(http.StatusForbidden, map[string]any{"message": "API key disabled"}), nil
	}

	return check.Approve(map[string]any{"id": cred.ID, "owner": cred.Owner}), nil
}

func keyFrom(cfg check.Config, r *http.Request) string {
	header, ok := cfg.String("header")
	if !ok || header == "" {
		header = defaultHeader
	}

	if key := strings.TrimSpace(r.Header.Get(header)); key != "" {
		return key
	}

	if param, ok := cfg.String("param"); ok && param != "" {
		return r.URL.Query().Get(param)
	}

	return ""
}

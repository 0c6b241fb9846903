package check

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

// IDKey is the Config entry identifying a check.
// An approving check's payload is stored in Results under it.
const IDKey = "check"

//go:generate mockgen -destination=checktest/mock_check.go -package=checktest . Check

// A Check decides whether a request may reach its handler.
//
// Apply must be safe for concurrent use.
type Check interface {
	// Config returns the configuration the check was built with.
	Config() Config

	// Apply inspects r under cfg, the check's Config merged with any per-endpoint override.
	// An error, not a rejection, signals the check could not decide.
	Apply(ctx context.Context, cfg Config, r *http.Request) (Result, error)
}

// Config parameterizes a Check.
type Config map[string]any

// ID returns the identifier of the Check the Config belongs to.
func (c Config) ID() string {
	id, _ := c[IDKey].(string)
	return id
}

// Merge shallow-merges override onto a copy of c, override winning.
func (c Config) Merge(override Config) Config {
	out := make(Config, len(c)+len(override))
	maps.Copy(out, c)
	maps.Copy(out, override)

	return out
}

// String retrieves key as a string.
func (c Config) String(key string) (string, bool) {
	v, ok := c[key].(string)
	return v, ok
}

// Int retrieves key as an int,
// accepting the numeric shapes JSON and YAML decoders produce.
func (c Config) Int(key string) (int, bool) {
	switch v := c[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		i, err := v.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(v)
		return i, err == nil
	default:
		return 0, false
	}
}

// Bool retrieves key as a bool.
func (c Config) Bool(key string) bool {
	switch v := c[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// checkID names chk for Results and logs,
// preferring the identifier in its own cfg, never an override.
func checkID(chk Check, cfg Config) string {
	if id := cfg.ID(); id != "" {
		return id
	}

	return fmt.Sprintf("%T", chk)
}

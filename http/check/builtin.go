package check

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/req"
)

const (
	KeyMatchVariant = "key-match"
	RefuseVariant   = "refuse"
	BrokenVariant   = "broken"
)

// KeyMatch approves requests carrying a value equal to its configured "key".
//
// Config:
//
//	check:   identifier
//	key:     the value expected
//	param:   the name of the value, "key" by default
//	context: where the value is read from, "query" by default
//
// A request without the value is denied without a reason.
// A request with any other value is rejected with 401 {"message":"key does not match"}.
type KeyMatch struct {
	cfg Config
}

// NewKeyMatch is the Factory for KeyMatch.
func NewKeyMatch(cfg Config) (Check, error) {
	if key, _ := cfg.String("key"); key == "" {
		return nil, fmt.Errorf("%w: key-match requires a key", checkpoint.ErrBadConfig)
	}

	if c, ok := cfg.String("context"); ok {
		if err := req.Context(c).Valid(); err != nil {
			return nil, err
		}
	}

	return KeyMatch{cfg: cfg}, nil
}

func (k KeyMatch) Config() Config { return k.cfg }

func (k KeyMatch) Apply(ctx context.Context, cfg Config, r *http.Request) (Result, error) {
	param, ok := cfg.String("param")
	if !ok || param == "" {
		param = "key"
	}

	c := req.Query
	if s, ok := cfg.String("context"); ok && s != "" {
		c = req.Context(s)
	}

	if c == req.Headers {
		param = strings.ToLower(param)
	}

	in, err := req.InputFromContext(ctx)
	if errors.Is(err, checkpoint.ErrMissingData) {
		in, err = req.ParseInput(r, nil)
	}
	if err != nil {
		return Result{}, err
	}

	got, ok := in.Values(c)[param].(string)
	if !ok {
		return Deny(), nil
	}

	if key, _ := cfg.String("key"); got != key {
		return Reject(http.StatusUnauthorized, map[string]any{"message": "key does not match"}), nil
	}

	return Approve(map[string]any{"message": "Accepted"}), nil
}

// Refuse rejects every request.
//
// With a "code" configured, Refuse rejects with it and {"message": <message>};
// otherwise it denies without a reason.
type Refuse struct {
	cfg Config
}

// NewRefuse is the Factory for Refuse.
func NewRefuse(cfg Config) (Check, error) { return Refuse{cfg: cfg}, nil }

func (f Refuse) Config() Config { return f.cfg }

func (f Refuse) Apply(_ context.Context, cfg Config, _ *http.Request) (Result, error) {
	code, ok := cfg.Int("code")
	if !ok {
		return Deny(), nil
	}

	msg, _ := cfg.String("message")
	return Reject(code, map[string]any{"message": msg}), nil
}

// Broken fails to reach a decision for every request,
// returning an error, or panicking when "panic" is configured.
type Broken struct {
	cfg Config
}

// NewBroken is the Factory for Broken.
func NewBroken(cfg Config) (Check, error) { return Broken{cfg: cfg}, nil }

func (b Broken) Config() Config { return b.cfg }

func (b Broken) Apply(_ context.Context, cfg Config, _ *http.Request) (Result, error) {
	if cfg.Bool("panic") {
		panic("broken check")
	}

	return Result{}, fmt.Errorf("%w: broken check", checkpoint.ErrUnexpected)
}

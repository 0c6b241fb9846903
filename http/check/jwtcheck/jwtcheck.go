// Package jwtcheck provides a check approving requests carrying a valid HS256 JWT.
package jwtcheck

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
)

// Variant is the name the jwt check registers under.
const Variant = "jwt"

const defaultParam = "jwt"

// A Check approves requests whose token verifies against its secret,
// passing on the token's claims.
//
// The token is read from an "Authorization: Bearer" header,
// falling back to a query param.
//
// Config:
//
//	check:  identifier
//	secret: the HMAC key tokens are signed with
//	param:  the query param carrying the token, "jwt" by default
type Check struct {
	cfg    check.Config
	key    []byte
	parser *jwt.Parser
}

// New is the Factory for Check.
func New(cfg check.Config) (check.Check, error) {
	secret, _ := cfg.String("secret")
	if secret == "" {
		return nil, fmt.Errorf(`%w: jwt check requires a "secret"`, checkpoint.ErrBadConfig)
	}

	return &Check{
		cfg:    cfg,
		key:    []byte(secret),
		parser: &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}},
	}, nil
}

func (c *Check) Config() check.Config { return c.cfg }

func (c *Check) Apply(_ context.Context, cfg check.Config, r *http.Request) (check.Result, error) {
	raw := tokenFrom(cfg, r)
	if raw == "" {
		return check.Reject(http.StatusUnauthorized, map[string]any{"message": "Missing token"}), nil
	}

	claims := jwt.MapClaims{}
	_, err := c.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return check.Reject(http.StatusUnauthorized, map[string]any{"message": "Invalid token"}), nil
	}

	return check.Approve(map[string]any(claims)), nil
}

func tokenFrom(cfg check.Config, r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}

	param, ok := cfg.String("param")
	if !ok || param == "" {
		param = defaultParam
	}

	return r.URL.Query().Get(param)
}

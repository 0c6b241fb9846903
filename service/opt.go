package service

import (
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/check/apikey"
	"github.com/xy-planning-network/checkpoint/http/check/googlecheck"
	"github.com/xy-planning-network/checkpoint/http/middleware"
	"github.com/xy-planning-network/checkpoint/http/session"
	"github.com/xy-planning-network/checkpoint/logger"
)

// A ServiceOpt configures a *Service under construction.
type ServiceOpt func(*Service)

// WithCredentialStore makes the "api-key" check available, looking keys up in store.
func WithCredentialStore(store apikey.Store) ServiceOpt {
	return func(s *Service) {
		s.credentials = store
	}
}

// WithGoogleFetcher sets how the "google" check fetches users.
func WithGoogleFetcher(f googlecheck.UserFetcher) ServiceOpt {
	return func(s *Service) {
		s.google = f
	}
}

// WithLogger sets the logger.Logger every component logs through.
func WithLogger(l logger.Logger) ServiceOpt {
	return func(s *Service) {
		s.l = l
	}
}

// WithOrigins sets the allow-list CORS admits origins from,
// in place of the configured origins.
func WithOrigins(o *middleware.Origins) ServiceOpt {
	return func(s *Service) {
		s.origins = o
	}
}

// WithRegistry sets the check.Registry the Service adds its check variants to.
func WithRegistry(reg *check.Registry) ServiceOpt {
	return func(s *Service) {
		s.registry = reg
	}
}

// WithSessionStore makes sessions available to handlers
// and the "session" check available.
func WithSessionStore(store session.SessionStorer) ServiceOpt {
	return func(s *Service) {
		s.sessions = store
	}
}

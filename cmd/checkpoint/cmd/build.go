package cmd

import (
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/checkpoint/config"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/check/apikey"
	"github.com/xy-planning-network/checkpoint/http/endpoint"
	"github.com/xy-planning-network/checkpoint/manifest"
	"github.com/xy-planning-network/checkpoint/postgres"
	"github.com/xy-planning-network/checkpoint/service"
)

// build assembles a *service.Service from cfg, serving the endpoints of the configured manifest.
// The returned func releases what build opened.
func build(cfg config.Config) (*service.Service, func() error, error) {
	var (
		opts    []service.ServiceOpt
		closers []func() error
	)

	closeAll := func() error {
		var err error
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i](); cerr != nil && err == nil {
				err = cerr
			}
		}
		return err
	}

	if cfg.HasDatabase() {
		db, err := postgres.Connect(cfg.Postgres(), postgres.Migrations, cfg.Env)
		if err != nil {
			return nil, closeAll, err
		}

		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, sqlDB.Close)
		}

		var store apikey.Store = apikey.NewPostgresStore(db)
		if cfg.Redis.Addr != "" {
			client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
			closers = append(closers, client.Close)
			store = apikey.NewCacheStore(client, store, cfg.Redis.CacheTTL)
		}

		opts = append(opts, service.WithCredentialStore(store))
	}

	if cfg.Session.AuthKey != "" {
		sessions, err := cfg.SessionStore()
		if err != nil {
			return nil, closeAll, err
		}

		opts = append(opts, service.WithSessionStore(sessions))
	}

	if cfg.AdminKey != "" {
		admin, err := check.NewKeyMatch(check.Config{
			check.IDKey: "admin-key",
			"key":       cfg.AdminKey,
			"param":     config.AdminKeyHeader,
			"context":   "headers",
		})
		if err != nil {
			return nil, closeAll, err
		}

		opts = append(opts, service.WithOriginsAdmin(admin))
	}

	s, err := service.New(cfg, opts...)
	if err != nil {
		return nil, closeAll, err
	}

	if cfg.Manifest == "" {
		return s, closeAll, nil
	}

	m, err := manifest.Load(cfg.Manifest)
	if err != nil {
		return nil, closeAll, err
	}

	handlers := map[string]http.Handler{"echo": endpoint.Echo(s.Responder())}
	if err := m.Apply(s.Router, s.Registry(), handlers); err != nil {
		return nil, closeAll, fmt.Errorf("applying %s: %w", cfg.Manifest, err)
	}

	return s, closeAll, nil
}

package server

import (
	"context"

	"github.com/jrsteele09/tenant-portal/auth"
	"github.com/jrsteele09/tenant-portal/internal/config"
	"github.com/jrsteele09/tenant-portal/internal/kvstore"
	"github.com/jrsteele09/tenant-portal/portalapi"
	"github.com/jrsteele09/tenant-portal/portalapi/httpapi"
	"github.com/jrsteele09/tenant-portal/portalapi/localapi"
	"github.com/jrsteele09/tenant-portal/sessions"
	"github.com/jrsteele09/tenant-portal/tenants/kvrepo"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Bootstrap assembles the portal from configuration: the storage driver,
// the session store, the API backend and the session manager. Restoring the
// persisted session runs in the background; guarded routes answer 503 until
// it completes. Close the returned server to release storage.
func Bootstrap(ctx context.Context, cfg config.Config) (*Server, error) {
	kv, err := kvstore.New(kvstore.Config{
		Driver: cfg.GetSessionDriver(),
		Folder: cfg.GetDataFolder(),
		Redis: &kvstore.RedisConfig{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
			Prefix:   cfg.GetRedisPrefix(),
		},
		SQLite: &kvstore.SQLiteConfig{Path: cfg.GetSQLitePath()},
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Bootstrap] open storage")
	}

	// The HTTP backend reads the bearer token from the manager, which is
	// created after the client.
	var manager *auth.Manager
	tokenSource := func() string {
		if manager == nil {
			return ""
		}
		return manager.Token()
	}

	api, err := newAPIClient(cfg, kv, tokenSource)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	manager, err = auth.NewManager(sessions.NewStore(kv), api,
		auth.WithAdminCredentials(cfg.GetAdminUsername(), cfg.GetAdminPassword()))
	if err != nil {
		_ = kv.Close()
		return nil, errors.Wrap(err, "[Bootstrap] create session manager")
	}

	s, err := New(cfg, manager, api)
	if err != nil {
		_ = kv.Close()
		return nil, errors.Wrap(err, "[Bootstrap] create server")
	}
	s.closers = append(s.closers, kv.Close)

	log.Info().
		Str("session_driver", cfg.GetSessionDriver()).
		Str("api_backend", cfg.GetAPIBackend()).
		Msg("Portal assembled")

	go manager.Restore(ctx)

	return s, nil
}

func newAPIClient(cfg config.Config, kv kvstore.KV, tokenSource func() string) (portalapi.Client, error) {
	switch cfg.GetAPIBackend() {
	case config.APIBackendLocal:
		return localapi.New(kvrepo.New(kv, kvrepo.DefaultSeed())), nil
	case config.APIBackendHTTP:
		return httpapi.New(cfg.GetAPIURL(),
			httpapi.WithTimeout(cfg.GetAPITimeout()),
			httpapi.WithTokenSource(tokenSource),
		), nil
	default:
		return nil, errors.Errorf("[Bootstrap] unsupported api backend: %s", cfg.GetAPIBackend())
	}
}

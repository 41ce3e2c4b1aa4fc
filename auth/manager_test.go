package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/tenant-portal/auth"
	"github.com/jrsteele09/tenant-portal/internal/errors"
	"github.com/jrsteele09/tenant-portal/internal/kvstore"
	"github.com/jrsteele09/tenant-portal/portalapi"
	"github.com/jrsteele09/tenant-portal/portalapi/localapi"
	"github.com/jrsteele09/tenant-portal/sessions"
	"github.com/jrsteele09/tenant-portal/tenants"
	"github.com/jrsteele09/tenant-portal/tenants/kvrepo"
	"github.com/stretchr/testify/require"
)

// testFixture holds all test dependencies
type testFixture struct {
	kv      *kvstore.MemoryStore
	store   *sessions.Store
	manager *auth.Manager
}

func setupTestFixture(t *testing.T, api portalapi.Client) *testFixture {
	t.Helper()

	kv := kvstore.NewMemory()
	if api == nil {
		api = localapi.New(kvrepo.New(kvstore.NewMemory(), kvrepo.DefaultSeed()))
	}
	store := sessions.NewStore(kv)
	m, err := auth.NewManager(store, api)
	require.NoError(t, err)

	return &testFixture{kv: kv, store: store, manager: m}
}

// scriptedAPI answers VerifyTenant and GetTenants from functions.
type scriptedAPI struct {
	portalapi.Client
	verify     func(ctx context.Context, tenantID, apiKey string) (portalapi.Identity, error)
	getTenants func(ctx context.Context) ([]*tenants.Tenant, error)
}

func (s *scriptedAPI) VerifyTenant(ctx context.Context, tenantID, apiKey string) (portalapi.Identity, error) {
	return s.verify(ctx, tenantID, apiKey)
}

func (s *scriptedAPI) GetTenants(ctx context.Context) ([]*tenants.Tenant, error) {
	if s.getTenants == nil {
		return nil, nil
	}
	return s.getTenants(ctx)
}

func TestNewManager(t *testing.T) {
	store := sessions.NewStore(kvstore.NewMemory())
	api := &scriptedAPI{}

	_, err := auth.NewManager(nil, api)
	require.Error(t, err)

	_, err = auth.NewManager(store, nil)
	require.Error(t, err)

	_, err = auth.NewManager(store, api, auth.WithAdminCredentials("", ""))
	require.Error(t, err)

	_, err = auth.NewManager(store, api, auth.WithAdminCredentials("admin", strings.Repeat("x", 73)))
	require.ErrorContains(t, err, "ADMIN_PASSWORD")

	_, err = auth.NewManager(store, api, auth.WithAdminCredentials("admin", strings.Repeat("x", 72)))
	require.NoError(t, err)

	m, err := auth.NewManager(store, api)
	require.NoError(t, err)
	require.Equal(t, auth.StateInitializing, m.State())
	select {
	case <-m.Ready():
		t.Fatal("manager should not be ready before Restore")
	default:
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh environment", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		require.Equal(t, auth.StateUnauthenticated, f.manager.Restore(ctx))
		<-f.manager.Ready()
		require.True(t, f.manager.Snapshot().Session.Equal(sessions.Empty()))
	})

	t.Run("persisted tenant session", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		saved := sessions.New(sessions.RoleTenant, sessions.User{ID: "tnt_001", Name: "Acme"}, "t1")
		require.NoError(t, f.store.Save(ctx, saved))

		require.Equal(t, auth.StateAuthenticatedTenant, f.manager.Restore(ctx))
		require.True(t, f.manager.Snapshot().Session.Equal(saved))
		require.Equal(t, "t1", f.manager.Token())
	})

	t.Run("persisted admin session", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		require.NoError(t, f.store.Save(ctx, sessions.New(sessions.RoleAdmin, sessions.User{ID: "admin"}, "")))
		require.Equal(t, auth.StateAuthenticatedAdmin, f.manager.Restore(ctx))
	})

	t.Run("corrupt session self heals", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		require.NoError(t, f.kv.Set(ctx, sessions.StorageKey, []byte(`{"isAuthenticated":true,"role":"admin"}`)))

		require.Equal(t, auth.StateUnauthenticated, f.manager.Restore(ctx))
		_, exists, err := f.kv.Get(ctx, sessions.StorageKey)
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("signed out record carries nothing over", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		require.NoError(t, f.kv.Set(ctx, sessions.StorageKey, []byte(`{"isAuthenticated":false,"role":"admin","user":{"id":"admin","name":"x"},"token":"stale_tok"}`)))

		require.Equal(t, auth.StateUnauthenticated, f.manager.Restore(ctx))
		require.Empty(t, f.manager.Token())
		require.True(t, f.manager.Snapshot().Session.Equal(sessions.Empty()))
	})

	t.Run("unknown role is discarded", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		require.NoError(t, f.kv.Set(ctx, sessions.StorageKey, []byte(`{"isAuthenticated":true,"role":"root","user":{"id":"x","name":"x"}}`)))

		require.Equal(t, auth.StateUnauthenticated, f.manager.Restore(ctx))
		_, exists, err := f.kv.Get(ctx, sessions.StorageKey)
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("only the first call restores", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		require.Equal(t, auth.StateUnauthenticated, f.manager.Restore(ctx))
		require.NoError(t, f.store.Save(ctx, sessions.New(sessions.RoleAdmin, sessions.User{ID: "admin"}, "")))
		require.Equal(t, auth.StateUnauthenticated, f.manager.Restore(ctx))
	})

	t.Run("login before restore wins", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		require.NoError(t, f.store.Save(ctx, sessions.New(sessions.RoleTenant, sessions.User{ID: "tnt_001"}, "")))

		require.NoError(t, f.manager.LoginAdmin(ctx, "admin", "admin123"))
		require.Equal(t, auth.StateAuthenticatedAdmin, f.manager.Restore(ctx))
	})
}

func TestLoginAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		f.manager.Restore(ctx)

		require.NoError(t, f.manager.LoginAdmin(ctx, "admin", "admin123"))
		snap := f.manager.Snapshot()
		require.Equal(t, auth.StateAuthenticatedAdmin, snap.State)
		require.Equal(t, "admin", snap.Session.User.ID)
		require.Equal(t, "Tenant Master", snap.Session.User.Name)

		persisted, ok := f.store.Load(ctx)
		require.True(t, ok)
		require.Equal(t, sessions.RoleAdmin, persisted.RoleValue())
		require.Equal(t, "admin", persisted.User.ID)
		require.Equal(t, "mock_admin_token", persisted.Token)
	})

	t.Run("wrong password leaves state unchanged", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		f.manager.Restore(ctx)
		before := f.manager.Snapshot()

		err := f.manager.LoginAdmin(ctx, "admin", "wrong")
		require.True(t, errors.Is(err, errors.ErrInvalidCredentials))
		require.EqualError(t, err, "Invalid Username or Password")

		after := f.manager.Snapshot()
		require.Equal(t, before.State, after.State)
		require.True(t, before.Session.Equal(after.Session))
		_, ok := f.store.Load(ctx)
		require.False(t, ok)
	})

	t.Run("wrong username", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		require.True(t, errors.Is(f.manager.LoginAdmin(ctx, "root", "admin123"), errors.ErrInvalidCredentials))
	})

	t.Run("failure keeps an existing tenant session", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		f.manager.Restore(ctx)
		require.NoError(t, f.manager.LoginTenant(ctx, "tnt_001", "ak_test_12345"))

		require.Error(t, f.manager.LoginAdmin(ctx, "admin", "wrong"))
		require.Equal(t, auth.StateAuthenticatedTenant, f.manager.State())
	})

	t.Run("custom credentials", func(t *testing.T) {
		store := sessions.NewStore(kvstore.NewMemory())
		m, err := auth.NewManager(store, &scriptedAPI{}, auth.WithAdminCredentials("ops", "s3cret"))
		require.NoError(t, err)
		require.Error(t, m.LoginAdmin(ctx, "admin", "admin123"))
		require.NoError(t, m.LoginAdmin(ctx, "ops", "s3cret"))
	})

	t.Run("probe failure is a network error", func(t *testing.T) {
		api := &scriptedAPI{getTenants: func(context.Context) ([]*tenants.Tenant, error) {
			return nil, errors.Message(errors.ErrNetwork, "connection refused")
		}}
		f := setupTestFixture(t, api)
		f.manager.Restore(ctx)

		err := f.manager.LoginAdmin(ctx, "admin", "admin123")
		require.True(t, errors.Is(err, errors.ErrNetwork))
		require.Equal(t, auth.StateUnauthenticated, f.manager.State())
	})
}

func TestLoginTenant(t *testing.T) {
	ctx := context.Background()

	t.Run("nested api response", func(t *testing.T) {
		api := &scriptedAPI{verify: func(_ context.Context, tenantID, _ string) (portalapi.Identity, error) {
			return portalapi.DecodeIdentity([]byte(`{"user":{"id":"tnt_001","name":"Acme"},"token":"t1"}`))
		}}
		f := setupTestFixture(t, api)
		f.manager.Restore(ctx)

		require.NoError(t, f.manager.LoginTenant(ctx, "tnt_001", "any-key"))
		snap := f.manager.Snapshot()
		require.Equal(t, auth.StateAuthenticatedTenant, snap.State)
		require.Equal(t, sessions.User{ID: "tnt_001", Name: "Acme"}, *snap.Session.User)
		require.Equal(t, "t1", snap.Session.Token)

		persisted, ok := f.store.Load(ctx)
		require.True(t, ok)
		require.True(t, persisted.Equal(snap.Session))
	})

	t.Run("token synthesised when missing", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		require.NoError(t, f.manager.LoginTenant(ctx, "tnt_001", "ak_test_12345"))
		require.Equal(t, "mock_tenant_tnt_001", f.manager.Token())
		require.Equal(t, "Acme Corp", f.manager.Snapshot().Session.User.Name)
	})

	t.Run("failure kinds", func(t *testing.T) {
		cases := map[string]struct {
			apiErr  error
			kind    error
			message string
		}{
			"rejected":     {errors.Message(errors.ErrInvalidCredentials, "Invalid tenant ID"), errors.ErrInvalidCredentials, "Invalid tenant ID"},
			"disabled":     {errors.Message(errors.ErrAccountDisabled, "Account is disabled"), errors.ErrAccountDisabled, "Account is disabled"},
			"network":      {errors.Message(errors.ErrNetwork, "dial tcp: refused"), errors.ErrNetwork, "dial tcp: refused"},
			"not found":    {errors.Message(errors.ErrNotFound, "Not found"), errors.ErrInvalidCredentials, "Not found"},
			"bare failure": {errors.ErrInvalidRequest, errors.ErrInvalidCredentials, "Invalid credentials"},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				api := &scriptedAPI{verify: func(context.Context, string, string) (portalapi.Identity, error) {
					return portalapi.Identity{}, tc.apiErr
				}}
				f := setupTestFixture(t, api)
				f.manager.Restore(ctx)

				err := f.manager.LoginTenant(ctx, "tnt_001", "k")
				require.True(t, errors.Is(err, tc.kind), "got %v", err)
				require.EqualError(t, err, tc.message)
				require.Equal(t, auth.StateUnauthenticated, f.manager.State())
			})
		}
	})

	t.Run("disabled tenant against local backend", func(t *testing.T) {
		f := setupTestFixture(t, nil)
		err := f.manager.LoginTenant(ctx, "tnt_002", "ak_test_67890")
		require.True(t, errors.Is(err, errors.ErrAccountDisabled))
	})
}

func TestStaleLoginIsDiscarded(t *testing.T) {
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	api := &scriptedAPI{verify: func(_ context.Context, tenantID, _ string) (portalapi.Identity, error) {
		if tenantID == "tnt_slow" {
			close(started)
			<-release
		}
		return portalapi.Identity{ID: tenantID, Name: tenantID}, nil
	}}
	f := setupTestFixture(t, api)
	f.manager.Restore(ctx)

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowErr = f.manager.LoginTenant(ctx, "tnt_slow", "k")
	}()
	<-started

	require.NoError(t, f.manager.LoginTenant(ctx, "tnt_fast", "k"))
	close(release)
	wg.Wait()

	require.True(t, errors.Is(slowErr, errors.ErrLoginSuperseded))
	require.Equal(t, "tnt_fast", f.manager.Snapshot().Session.User.ID)
	persisted, ok := f.store.Load(ctx)
	require.True(t, ok)
	require.Equal(t, "tnt_fast", persisted.User.ID)
}

func TestLogoutSupersedesInflightLogin(t *testing.T) {
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	api := &scriptedAPI{verify: func(context.Context, string, string) (portalapi.Identity, error) {
		close(started)
		<-release
		return portalapi.Identity{ID: "tnt_001", Name: "Acme"}, nil
	}}
	f := setupTestFixture(t, api)
	f.manager.Restore(ctx)

	done := make(chan error, 1)
	go func() { done <- f.manager.LoginTenant(ctx, "tnt_001", "k") }()
	<-started

	require.NoError(t, f.manager.Logout(ctx))
	close(release)

	select {
	case err := <-done:
		require.True(t, errors.Is(err, errors.ErrLoginSuperseded))
	case <-time.After(5 * time.Second):
		t.Fatal("login did not return")
	}
	require.Equal(t, auth.StateUnauthenticated, f.manager.State())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, nil)
	f.manager.Restore(ctx)
	require.NoError(t, f.manager.LoginTenant(ctx, "tnt_001", "ak_test_12345"))

	require.NoError(t, f.manager.Logout(ctx))
	once := f.manager.Snapshot()
	require.Equal(t, auth.StateUnauthenticated, once.State)
	require.True(t, once.Session.Equal(sessions.Empty()))

	_, exists, err := f.kv.Get(ctx, sessions.StorageKey)
	require.NoError(t, err)
	require.False(t, exists)
	_, ok := f.store.Load(ctx)
	require.False(t, ok)

	require.NoError(t, f.manager.Logout(ctx))
	twice := f.manager.Snapshot()
	require.Equal(t, once.State, twice.State)
	require.True(t, once.Session.Equal(twice.Session))
}

func TestLogoutBeforeRestoreMarksReady(t *testing.T) {
	f := setupTestFixture(t, nil)
	require.NoError(t, f.manager.Logout(context.Background()))
	<-f.manager.Ready()
	require.Equal(t, auth.StateUnauthenticated, f.manager.State())
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, nil)
	require.NoError(t, f.manager.LoginAdmin(ctx, "admin", "admin123"))

	snap := f.manager.Snapshot()
	snap.Session.User.ID = "mallory"
	require.Equal(t, "admin", f.manager.Snapshot().Session.User.ID)
}

func TestStateRole(t *testing.T) {
	require.Equal(t, sessions.RoleAdmin, auth.StateAuthenticatedAdmin.Role())
	require.Equal(t, sessions.RoleTenant, auth.StateAuthenticatedTenant.Role())
	require.Empty(t, auth.StateUnauthenticated.Role())
	require.Equal(t, "initializing", auth.StateInitializing.String())
}

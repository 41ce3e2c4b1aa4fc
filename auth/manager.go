package auth

import (
	"context"
	"sync"

	portalerrors "github.com/jrsteele09/tenant-portal/internal/errors"
	"github.com/jrsteele09/tenant-portal/portalapi"
	"github.com/jrsteele09/tenant-portal/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"

	adminUserID    = "admin"
	adminUserName  = "Tenant Master"
	adminToken     = "mock_admin_token"
	tenantTokenFmt = "mock_tenant_"

	// bcrypt only hashes the first 72 bytes and rejects longer input
	maxAdminPasswordBytes = 72

	msgInvalidAdminLogin = "Invalid Username or Password"
	msgInvalidLogin      = "Invalid credentials"
)

// Manager is the single owner of the current session. Every change goes
// through LoginAdmin, LoginTenant or Logout and is mirrored to the store
// before it becomes visible. Readers get copies via Snapshot.
type Manager struct {
	store SessionStore
	api   portalapi.Client

	adminUsername string
	adminPassword string
	adminHash     []byte

	mu      sync.RWMutex
	state   State
	session sessions.Session
	// attempt is the number of the most recently initiated login or logout.
	// A login result whose number is no longer current is discarded.
	attempt uint64

	ready       chan struct{}
	readyOnce   sync.Once
	restoreOnce sync.Once
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithAdminCredentials overrides the fixed console credentials.
func WithAdminCredentials(username, password string) ManagerOption {
	return func(m *Manager) {
		m.adminUsername = username
		m.adminPassword = password
	}
}

// NewManager returns a manager in StateInitializing. Call Restore to load
// the persisted session.
func NewManager(store SessionStore, api portalapi.Client, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] session store is required")
	}
	if api == nil {
		return nil, errors.New("[NewManager] api client is required")
	}

	m := &Manager{
		store:         store,
		api:           api,
		adminUsername: defaultAdminUsername,
		adminPassword: defaultAdminPassword,
		state:         StateInitializing,
		session:       sessions.Empty(),
		ready:         make(chan struct{}),
	}
	for _, opt := range options {
		opt(m)
	}

	if m.adminUsername == "" || m.adminPassword == "" {
		return nil, errors.New("[NewManager] admin credentials must not be empty")
	}
	if len(m.adminPassword) > maxAdminPasswordBytes {
		return nil, errors.Errorf("[NewManager] admin password (ADMIN_PASSWORD) must be at most %d bytes", maxAdminPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(m.adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "[NewManager] hash admin password")
	}
	m.adminHash = hash
	m.adminPassword = ""

	return m, nil
}

// Restore loads the persisted session and leaves StateInitializing. Only the
// first call does any work. A login or logout that completed first wins.
func (m *Manager) Restore(ctx context.Context) State {
	m.restoreOnce.Do(func() {
		session, ok := m.store.Load(ctx)

		m.mu.Lock()
		defer m.mu.Unlock()
		defer m.markReady()

		if m.state != StateInitializing {
			return
		}
		if !ok || !session.IsAuthenticated {
			m.state = StateUnauthenticated
			return
		}
		state, known := stateFor(session)
		if !known {
			log.Warn().Str("role", string(session.RoleValue())).Msg("Persisted session has unknown role, clearing")
			if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
				log.Err(err).Msg("Failed to clear session with unknown role")
			}
			m.state = StateUnauthenticated
			return
		}
		m.session = session
		m.state = state
		log.Info().Str("state", state.String()).Msg("Session restored")
	})
	return m.State()
}

// Ready is closed once the manager has left StateInitializing.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{State: m.state, Session: m.session.Clone()}
}

// Token returns the bearer token of the current session, if any.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

// LoginAdmin checks the fixed console credentials. The API is probed first
// as a liveness check; the credentials themselves are never sent to it.
func (m *Manager) LoginAdmin(ctx context.Context, username, password string) error {
	attempt := m.begin()

	if _, err := m.api.GetTenants(ctx); err != nil {
		log.Err(err).Msg("Admin login: backend probe failed")
		if portalerrors.Is(err, portalerrors.ErrNetwork) {
			return err
		}
		return portalerrors.Message(portalerrors.ErrNetwork, err.Error())
	}

	if !m.adminMatches(username, password) {
		log.Info().Str("username", username).Msg("Admin login rejected")
		return portalerrors.Message(portalerrors.ErrInvalidCredentials, msgInvalidAdminLogin)
	}

	session := sessions.New(sessions.RoleAdmin, sessions.User{ID: adminUserID, Name: adminUserName}, adminToken)
	return m.commit(ctx, attempt, session)
}

// LoginTenant verifies the tenant with the API. A missing token is
// synthesised from the tenant ID.
func (m *Manager) LoginTenant(ctx context.Context, tenantID, apiKey string) error {
	attempt := m.begin()

	identity, err := m.api.VerifyTenant(ctx, tenantID, apiKey)
	if err != nil {
		log.Err(err).Str("tenant_id", tenantID).Msg("Tenant login failed")
		return loginFailure(err)
	}

	token := identity.Token
	if token == "" {
		token = tenantTokenFmt + identity.ID
	}
	session := sessions.New(sessions.RoleTenant, sessions.User{ID: identity.ID, Name: identity.Name}, token)
	return m.commit(ctx, attempt, session)
}

// Logout resets to the empty session and clears the store. Logins still in
// flight are superseded. Calling it repeatedly is harmless.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempt++
	m.session = sessions.Empty()
	m.state = StateUnauthenticated
	m.markReady()

	if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
		log.Err(err).Msg("Logout: failed to clear persisted session")
		return errors.Wrap(err, "[Logout]")
	}
	log.Info().Msg("Signed out")
	return nil
}

func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempt++
	return m.attempt
}

// commit persists and publishes session if attempt is still the latest.
// The store write is not cancelled with the caller's context.
func (m *Manager) commit(ctx context.Context, attempt uint64, session sessions.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if attempt != m.attempt {
		log.Info().Uint64("attempt", attempt).Uint64("latest", m.attempt).Msg("Discarding stale login result")
		return portalerrors.ErrLoginSuperseded
	}
	if err := m.store.Save(context.WithoutCancel(ctx), session); err != nil {
		log.Err(err).Msg("Failed to persist session")
		return errors.Wrap(err, "[commit] persist session")
	}

	state, _ := stateFor(session)
	m.session = session
	m.state = state
	m.markReady()
	log.Info().Str("state", state.String()).Str("user_id", session.User.ID).Msg("Signed in")
	return nil
}

func (m *Manager) markReady() {
	m.readyOnce.Do(func() { close(m.ready) })
}

func (m *Manager) adminMatches(username, password string) bool {
	passwordOK := bcrypt.CompareHashAndPassword(m.adminHash, []byte(password)) == nil
	return passwordOK && username == m.adminUsername
}

// loginFailure keeps the three login failure kinds and collapses anything
// else into ErrInvalidCredentials, preserving a server message if present.
func loginFailure(err error) error {
	switch {
	case portalerrors.Is(err, portalerrors.ErrInvalidCredentials),
		portalerrors.Is(err, portalerrors.ErrAccountDisabled),
		portalerrors.Is(err, portalerrors.ErrNetwork):
		return err
	}
	var msgErr *portalerrors.MessageError
	if portalerrors.As(err, &msgErr) && msgErr.Msg != "" {
		return portalerrors.Message(portalerrors.ErrInvalidCredentials, msgErr.Msg)
	}
	return portalerrors.Message(portalerrors.ErrInvalidCredentials, msgInvalidLogin)
}

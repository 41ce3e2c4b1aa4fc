package auth

import "github.com/jrsteele09/tenant-portal/sessions"

// State of the session lifecycle.
type State int

const (
	// StateInitializing means the persisted session has not been restored
	// yet. Consumers should show a loading indicator and not redirect.
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticatedAdmin
	StateAuthenticatedTenant
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticatedAdmin:
		return "authenticated_admin"
	case StateAuthenticatedTenant:
		return "authenticated_tenant"
	default:
		return "unknown"
	}
}

// Role returns the role an authenticated state is scoped to, or "".
func (s State) Role() sessions.Role {
	switch s {
	case StateAuthenticatedAdmin:
		return sessions.RoleAdmin
	case StateAuthenticatedTenant:
		return sessions.RoleTenant
	default:
		return ""
	}
}

// stateFor maps a valid session to its state. Authenticated sessions with
// an unknown role have no state and report false.
func stateFor(s sessions.Session) (State, bool) {
	if !s.IsAuthenticated {
		return StateUnauthenticated, true
	}
	switch s.RoleValue() {
	case sessions.RoleAdmin:
		return StateAuthenticatedAdmin, true
	case sessions.RoleTenant:
		return StateAuthenticatedTenant, true
	default:
		return StateUnauthenticated, false
	}
}

// Snapshot is a read-only copy of the manager's state.
type Snapshot struct {
	State   State
	Session sessions.Session
}

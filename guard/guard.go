// Package guard decides what a role-scoped route shows for the current
// authentication state.
package guard

import (
	"github.com/jrsteele09/tenant-portal/auth"
	"github.com/jrsteele09/tenant-portal/sessions"
)

// Route paths the guard redirects to.
const (
	PathLogin           = "/"
	PathAdminDashboard  = "/admin/dashboard"
	PathTenantDashboard = "/tenant/dashboard"
)

// Kind of guard decision.
type Kind int

const (
	// Loading means the session is still being restored. Show a
	// placeholder and do not redirect.
	Loading Kind = iota
	Render
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Decide. Path is set only for Redirect.
type Decision struct {
	Kind Kind
	Path string
}

// Decide maps the authentication state and the role a route requires to a
// decision. It has no side effects.
func Decide(state auth.State, required sessions.Role) Decision {
	switch state {
	case auth.StateInitializing:
		return Decision{Kind: Loading}
	case auth.StateAuthenticatedAdmin, auth.StateAuthenticatedTenant:
		role := state.Role()
		if role != required {
			return Decision{Kind: Redirect, Path: HomePath(role)}
		}
		return Decision{Kind: Render}
	default:
		return Decision{Kind: Redirect, Path: PathLogin}
	}
}

// HomePath is the dashboard of a role. Anything but admin lands on the
// tenant dashboard.
func HomePath(role sessions.Role) string {
	if role == sessions.RoleAdmin {
		return PathAdminDashboard
	}
	return PathTenantDashboard
}

package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/tenant-portal/guard"
	"github.com/jrsteele09/tenant-portal/sessions"
	"github.com/rs/zerolog"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the session a guarded handler renders for
	ContextKeySession ContextKey = "session"
	// ContextKeyRequestID stores the request correlation ID
	ContextKeyRequestID ContextKey = "request_id"
)

// RequireRole guards routes scoped to role. While the session is still
// being restored it answers 503 with Retry-After so clients poll instead of
// being bounced to the login selector.
func (s *Server) RequireRole(role sessions.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			snapshot := s.manager.Snapshot()
			decision := guard.Decide(snapshot.State, role)

			switch decision.Kind {
			case guard.Loading:
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			case guard.Redirect:
				zerolog.Ctx(r.Context()).Debug().
					Str("state", snapshot.State.String()).
					Str("required", string(role)).
					Str("location", decision.Path).
					Msg("Guard redirect")
				http.Redirect(w, r, decision.Path, http.StatusSeeOther)
			default:
				ctx := context.WithValue(r.Context(), ContextKeySession, snapshot.Session)
				next(w, r.WithContext(ctx))
			}
		}
	}
}

// SessionFromContext returns the session stored by RequireRole.
func SessionFromContext(ctx context.Context) (sessions.Session, bool) {
	session, ok := ctx.Value(ContextKeySession).(sessions.Session)
	return session, ok
}

// tenantID is the signed in tenant of a guarded tenant route.
func tenantID(r *http.Request) string {
	session, ok := SessionFromContext(r.Context())
	if !ok || session.User == nil {
		return ""
	}
	return session.User.ID
}

package server

import (
	"net/http"

	"github.com/jrsteele09/tenant-portal/auth"
	"github.com/jrsteele09/tenant-portal/guard"
	"github.com/jrsteele09/tenant-portal/sessions"
	"github.com/rs/zerolog"
)

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tenantLoginRequest struct {
	TenantID string `json:"tenantId" validate:"required"`
	APIKey   string `json:"apiKey" validate:"required"`
}

type loginResponse struct {
	State    string         `json:"state"`
	Redirect string         `json:"redirect"`
	User     *sessions.User `json:"user,omitempty"`
}

type loginPage struct {
	Title  string   `json:"title"`
	Action string   `json:"action"`
	Fields []string `json:"fields"`
}

// LoginSelectorHandler lists the two sign in entry points. A signed in
// caller is also told where their dashboard is.
func (s *Server) LoginSelectorHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := s.manager.Snapshot()
		resp := map[string]any{
			"title": s.config.GetAppName(),
			"state": snapshot.State.String(),
			"logins": []loginPage{
				{Title: "Admin Login", Action: RouteAdminLogin},
				{Title: "Tenant Login", Action: RouteTenantLogin},
			},
		}
		if role := snapshot.State.Role(); role != "" {
			resp["home"] = guard.HomePath(role)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) AdminLoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, loginPage{Title: "Admin Login", Action: RouteAdminLogin, Fields: []string{"username", "password"}})
	}
}

func (s *Server) TenantLoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, loginPage{Title: "Tenant Login", Action: RouteTenantLogin, Fields: []string{"tenantId", "apiKey"}})
	}
}

func (s *Server) AdminLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminLoginRequest
		if err := s.decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := s.manager.LoginAdmin(r.Context(), req.Username, req.Password); err != nil {
			zerolog.Ctx(r.Context()).Info().Err(err).Msg("Admin login failed")
			writeError(w, err)
			return
		}
		s.writeLoginSuccess(w)
	}
}

func (s *Server) TenantLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tenantLoginRequest
		if err := s.decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := s.manager.LoginTenant(r.Context(), req.TenantID, req.APIKey); err != nil {
			zerolog.Ctx(r.Context()).Info().Err(err).Str("tenant_id", req.TenantID).Msg("Tenant login failed")
			writeError(w, err)
			return
		}
		s.writeLoginSuccess(w)
	}
}

func (s *Server) writeLoginSuccess(w http.ResponseWriter) {
	snapshot := s.manager.Snapshot()
	writeJSON(w, http.StatusOK, loginResponse{
		State:    snapshot.State.String(),
		Redirect: guard.HomePath(snapshot.State.Role()),
		User:     snapshot.Session.User,
	})
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.manager.Logout(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Logout did not clear the persisted session")
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{State: auth.StateUnauthenticated.String(), Redirect: RouteIndex})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"state":  s.manager.State().String(),
		})
	}
}

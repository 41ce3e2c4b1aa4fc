package server

import (
	"net/http"

	"github.com/jrsteele09/tenant-portal/sessions"
)

func (s *Server) initRoutes() {
	// PUBLIC
	s.RegisterRouteHandler("GET "+RouteIndex+"{$}", ChainMiddleware(s.LoginSelectorHandler(), s.PortalMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAdminLogin, ChainMiddleware(s.AdminLoginPageHandler(), s.PortalMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAdminLogin, ChainMiddleware(s.AdminLoginHandler(), s.PortalMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteTenantLogin, ChainMiddleware(s.TenantLoginPageHandler(), s.PortalMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTenantLogin, ChainMiddleware(s.TenantLoginHandler(), s.PortalMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.PortalMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.PortalMiddleware()...))

	// ADMIN
	admin := s.PortalMiddleware(s.RequireRole(sessions.RoleAdmin))
	s.RegisterRouteHandler("GET "+RouteAdminRoot+"{$}", ChainMiddleware(redirectTo("dashboard"), admin...))
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, ChainMiddleware(s.AdminDashboardHandler(), admin...))
	s.RegisterRouteHandler("GET "+RouteAdminTenants, ChainMiddleware(s.AdminTenantsListHandler(), admin...))
	s.RegisterRouteHandler("POST "+RouteAdminTenants, ChainMiddleware(s.AdminCreateTenantHandler(), admin...))
	s.RegisterRouteHandler("PATCH "+RouteAdminTenantStatus, ChainMiddleware(s.AdminTenantStatusHandler(), admin...))
	s.RegisterRouteHandler("POST "+RouteAdminTenantAPIKey, ChainMiddleware(s.AdminRegenerateAPIKeyHandler(), admin...))
	s.RegisterRouteHandler("GET "+RouteAdminAnalytics, ChainMiddleware(s.AdminAnalyticsHandler(), admin...))

	// TENANT
	tenant := s.PortalMiddleware(s.RequireRole(sessions.RoleTenant))
	s.RegisterRouteHandler("GET "+RouteTenantRoot+"{$}", ChainMiddleware(redirectTo("dashboard"), tenant...))
	s.RegisterRouteHandler("GET "+RouteTenantDash, ChainMiddleware(s.TenantDashboardHandler(), tenant...))
	s.RegisterRouteHandler("GET "+RouteTenantFiles, ChainMiddleware(s.TenantFilesHandler(), tenant...))
	s.RegisterRouteHandler("POST "+RouteTenantFiles, ChainMiddleware(s.TenantUploadFileHandler(), tenant...))
	s.RegisterRouteHandler("DELETE "+RouteTenantFile, ChainMiddleware(s.TenantDeleteFileHandler(), tenant...))
	s.RegisterRouteHandler("GET "+RouteTenantTeams, ChainMiddleware(s.TenantTeamsHandler(), tenant...))
	s.RegisterRouteHandler("POST "+RouteTenantTeams, ChainMiddleware(s.TenantCreateTeamHandler(), tenant...))
	s.RegisterRouteHandler("PATCH "+RouteTenantTeam, ChainMiddleware(s.TenantUpdateTeamHandler(), tenant...))
	s.RegisterRouteHandler("GET "+RouteTenantSettings, ChainMiddleware(s.TenantSettingsHandler(), tenant...))
	s.RegisterRouteHandler("PATCH "+RouteTenantBranding, ChainMiddleware(s.TenantBrandingHandler(), tenant...))

	// Anything else goes back to the login selector
	s.RegisterRouteHandler("/", ChainMiddleware(redirectTo(RouteIndex), s.PortalMiddleware()...))
}

// redirectTo answers with a 303 to path. Relative paths resolve against the
// request URL.
func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusSeeOther)
	}
}

package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public Routes
	RouteIndex       = "/"
	RouteAdminLogin  = "/admin/login"
	RouteTenantLogin = "/tenant/login"
	RouteLogout      = "/logout"
	RouteHealth      = "/healthz"

	// Admin Routes
	RouteAdminRoot         = "/admin/"
	RouteAdminDashboard    = "/admin/dashboard"
	RouteAdminTenants      = "/admin/tenants"
	RouteAdminTenantStatus = "/admin/tenants/{id}/status"
	RouteAdminTenantAPIKey = "/admin/tenants/{id}/api-key"
	RouteAdminAnalytics    = "/admin/analytics"

	// Tenant Routes
	RouteTenantRoot     = "/tenant/"
	RouteTenantDash     = "/tenant/dashboard"
	RouteTenantFiles    = "/tenant/files"
	RouteTenantFile     = "/tenant/files/{id}"
	RouteTenantTeams    = "/tenant/teams"
	RouteTenantTeam     = "/tenant/teams/{id}"
	RouteTenantSettings = "/tenant/settings"
	RouteTenantBranding = "/tenant/settings/branding"
)

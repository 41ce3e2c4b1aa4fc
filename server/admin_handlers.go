package server

import (
	"net/http"

	"github.com/jrsteele09/tenant-portal/tenants"
	"github.com/rs/zerolog"
)

type createTenantRequest struct {
	Name string `json:"name" validate:"required"`
}

type tenantStatusRequest struct {
	Status tenants.Status `json:"status" validate:"required,oneof=active disabled"`
}

type tenantTotals struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Disabled int `json:"disabled"`
}

func countTenants(list []*tenants.Tenant) tenantTotals {
	totals := tenantTotals{Total: len(list)}
	for _, t := range list {
		if t.Status == tenants.StatusActive {
			totals.Active++
		} else {
			totals.Disabled++
		}
	}
	return totals
}

// AdminDashboardHandler reports tenant totals and backend health
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.api.GetTenants(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		systemStatus := "Healthy"
		if err := s.api.Ping(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Backend health check failed")
			systemStatus = "Degraded"
		}
		totals := countTenants(list)
		writeJSON(w, http.StatusOK, map[string]any{
			"total":        totals.Total,
			"active":       totals.Active,
			"systemStatus": systemStatus,
		})
	}
}

func (s *Server) AdminTenantsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.api.GetTenants(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) AdminCreateTenantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTenantRequest
		if err := s.decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		tenant, err := s.api.CreateTenant(r.Context(), req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		zerolog.Ctx(r.Context()).Info().Str("tenant_id", tenant.ID).Msg("Tenant created")
		writeJSON(w, http.StatusCreated, tenant)
	}
}

func (s *Server) AdminTenantStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tenantStatusRequest
		if err := s.decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		tenant, err := s.api.UpdateTenantStatus(r.Context(), r.PathValue("id"), req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tenant)
	}
}

func (s *Server) AdminRegenerateAPIKeyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := s.api.RegenerateAPIKey(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"apiKey": key})
	}
}

// AdminAnalyticsHandler breaks tenants down by status
func (s *Server) AdminAnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.api.GetTenants(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, countTenants(list))
	}
}

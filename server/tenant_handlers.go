package server

import (
	"net/http"

	"github.com/jrsteele09/tenant-portal/internal/errors"
	"github.com/jrsteele09/tenant-portal/tenants"
	"github.com/rs/zerolog"
)

const uploadField = "file"

type brandingRequest struct {
	BrandColor string `json:"brandColor" validate:"omitempty,hexcolor"`
	Font       string `json:"font"`
}

// TenantDashboardHandler summarises storage and team usage
func (s *Server) TenantDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := tenantID(r)
		files, err := s.api.GetFiles(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		teams, err := s.api.GetTeams(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		var storage int64
		for _, f := range files {
			storage += f.Size
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"files":        len(files),
			"storageBytes": storage,
			"teams":        len(teams),
		})
	}
}

func (s *Server) TenantFilesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := s.api.GetFiles(r.Context(), tenantID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, files)
	}
}

// TenantUploadFileHandler accepts a multipart upload in the "file" field
func (s *Server) TenantUploadFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		part, header, err := r.FormFile(uploadField)
		if err != nil {
			writeError(w, errors.Message(errors.ErrInvalidRequest, "No file uploaded"))
			return
		}
		defer part.Close()

		file, err := s.api.UploadFile(r.Context(), tenantID(r), header.Filename, part)
		if err != nil {
			writeError(w, err)
			return
		}
		zerolog.Ctx(r.Context()).Info().Str("file_id", file.ID).Int64("size", file.Size).Msg("File uploaded")
		writeJSON(w, http.StatusCreated, file)
	}
}

func (s *Server) TenantDeleteFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.api.DeleteFile(r.Context(), tenantID(r), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) TenantTeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := s.api.GetTeams(r.Context(), tenantID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

func (s *Server) TenantCreateTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input tenants.TeamInput
		if err := s.decodeBody(w, r, &input); err != nil {
			writeError(w, err)
			return
		}
		team, err := s.api.CreateTeam(r.Context(), tenantID(r), input)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, team)
	}
}

func (s *Server) TenantUpdateTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch tenants.TeamPatch
		if err := s.decodeBody(w, r, &patch); err != nil {
			writeError(w, err)
			return
		}
		team, err := s.api.UpdateTeam(r.Context(), tenantID(r), r.PathValue("id"), patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}

// TenantSettingsHandler returns the tenant record without its API key
func (s *Server) TenantSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := s.api.GetTenant(r.Context(), tenantID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		settings := tenants.Settings{}
		if tenant.Settings != nil {
			settings = *tenant.Settings
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":       tenant.ID,
			"name":     tenant.Name,
			"status":   tenant.Status,
			"settings": settings,
		})
	}
}

func (s *Server) TenantBrandingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req brandingRequest
		if err := s.decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		tenant, err := s.api.UpdateBranding(r.Context(), tenantID(r), req.BrandColor, req.Font)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tenant.Settings)
	}
}

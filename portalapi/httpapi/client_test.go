package httpapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/tenant-portal/internal/errors"
	"github.com/jrsteele09/tenant-portal/portalapi/httpapi"
	"github.com/jrsteele09/tenant-portal/tenants"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *httpapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return httpapi.New(srv.URL, httpapi.WithTokenSource(func() string { return "t1" }))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestVerifyTenant(t *testing.T) {
	t.Run("nested response", func(t *testing.T) {
		c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/login/tenant", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "tnt_001", body["tenantId"])
			require.Equal(t, "any-key", body["apiKey"])

			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"token":   "t1",
				"user":    map[string]string{"id": "tnt_001", "name": "Acme"},
			})
		})

		id, err := c.VerifyTenant(t.Context(), "tnt_001", "any-key")
		require.NoError(t, err)
		require.Equal(t, "tnt_001", id.ID)
		require.Equal(t, "Acme", id.Name)
		require.Equal(t, "t1", id.Token)
	})

	cases := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"unknown tenant", http.StatusUnauthorized, `{"error":"Invalid tenant ID"}`, errors.ErrInvalidCredentials, "Invalid tenant ID"},
		{"disabled", http.StatusForbidden, `{"error":"Account is disabled"}`, errors.ErrAccountDisabled, "Account is disabled"},
		{"no message", http.StatusUnauthorized, `{}`, errors.ErrInvalidCredentials, "Invalid credentials"},
		{"server failure", http.StatusInternalServerError, `{"error":"Database connection failed"}`, errors.ErrNetwork, "Database connection failed"},
		{"html error page", http.StatusBadRequest, `<html></html>`, errors.ErrInvalidCredentials, "Invalid credentials"},
		{"unrecognised success body", http.StatusOK, `{"success":true}`, errors.ErrNetwork, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			_, err := c.VerifyTenant(t.Context(), "tnt_001", "k")
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.kind), "got %v", err)
			if tc.message != "" {
				require.EqualError(t, err, tc.message)
			}
		})
	}

	t.Run("backend unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := httpapi.New(url, httpapi.WithTimeout(time.Second)).VerifyTenant(t.Context(), "tnt_001", "k")
		require.True(t, errors.Is(err, errors.ErrNetwork))
	})
}

func TestTenantCRUD(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer t1", r.Header.Get("Authorization"))

		switch r.Method + " " + r.URL.Path {
		case "GET /tenants":
			writeJSON(w, http.StatusOK, []tenants.Tenant{{ID: "tnt_001", Name: "Acme", Status: tenants.StatusActive}})
		case "POST /tenants":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusOK, tenants.Tenant{ID: "tnt_new", Name: body["name"], Status: tenants.StatusActive})
		case "PATCH /tenants/tnt_001/status":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusOK, tenants.Tenant{ID: "tnt_001", Status: tenants.Status(body["status"])})
		case "GET /tenants/tnt_404":
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
		case "PATCH /tenants/tnt_001/branding":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusOK, tenants.Tenant{ID: "tnt_001", Settings: &tenants.Settings{BrandColor: body["brandColor"], Font: body["font"]}})
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := t.Context()

	list, err := c.GetTenants(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	created, err := c.CreateTenant(ctx, "Initech")
	require.NoError(t, err)
	require.Equal(t, "Initech", created.Name)

	updated, err := c.UpdateTenantStatus(ctx, "tnt_001", tenants.StatusDisabled)
	require.NoError(t, err)
	require.Equal(t, tenants.StatusDisabled, updated.Status)

	_, err = c.GetTenant(ctx, "tnt_404")
	require.True(t, errors.Is(err, errors.ErrNotFound))
	require.EqualError(t, err, "Not found")

	branded, err := c.UpdateBranding(ctx, "tnt_001", "#ff0000", "Mono")
	require.NoError(t, err)
	require.Equal(t, "#ff0000", branded.Settings.BrandColor)

	_, err = c.RegenerateAPIKey(ctx, "tnt_001")
	require.True(t, errors.Is(err, errors.ErrUnsupported))
}

func TestFilesAndTeams(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /tenants/tnt_001/files":
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			data, err := io.ReadAll(file)
			require.NoError(t, err)
			writeJSON(w, http.StatusOK, tenants.File{ID: "file_x", Name: header.Filename, Size: int64(len(data))})
		case "GET /tenants/tnt_001/files":
			writeJSON(w, http.StatusOK, []tenants.File{{ID: "file_x"}})
		case "DELETE /tenants/tnt_001/files/file_x":
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		case "DELETE /tenants/tnt_001/files/file_gone":
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		case "POST /tenants/tnt_001/teams":
			var in tenants.TeamInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			writeJSON(w, http.StatusOK, tenants.Team{ID: "team_1", Name: in.Name, Provider: in.Provider})
		case "PATCH /tenants/tnt_001/teams/team_1":
			var raw map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			require.Equal(t, map[string]any{"model": "gpt-4o"}, raw, "only set fields are sent")
			writeJSON(w, http.StatusOK, tenants.Team{ID: "team_1", Model: "gpt-4o"})
		case "GET /tenants/tnt_001/teams":
			writeJSON(w, http.StatusOK, []tenants.Team{{ID: "team_1"}})
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := t.Context()

	f, err := c.UploadFile(ctx, "tnt_001", "notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	require.Equal(t, "notes.txt", f.Name)
	require.EqualValues(t, 5, f.Size)

	files, err := c.GetFiles(ctx, "tnt_001")
	require.NoError(t, err)
	require.Len(t, files, 1)

	require.NoError(t, c.DeleteFile(ctx, "tnt_001", "file_x"))
	require.True(t, errors.Is(c.DeleteFile(ctx, "tnt_001", "file_gone"), errors.ErrNotFound))

	team, err := c.CreateTeam(ctx, "tnt_001", tenants.TeamInput{Name: "Research", Provider: tenants.ProviderGemini})
	require.NoError(t, err)
	require.Equal(t, "Research", team.Name)

	team, err = c.UpdateTeam(ctx, "tnt_001", "team_1", tenants.TeamPatch{Model: ptr("gpt-4o")})
	require.NoError(t, err)
	require.Equal(t, "gpt-4o", team.Model)

	teams, err := c.GetTeams(ctx, "tnt_001")
	require.NoError(t, err)
	require.Len(t, teams, 1)
}

func ptr[T any](v T) *T {
	return &v
}

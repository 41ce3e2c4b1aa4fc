// Package portalapi defines the capability contract of the remote portal
// API. Two interchangeable backends implement it: httpapi talks to the REST
// backend, localapi serves the same operations from local storage.
package portalapi

import (
	"context"
	"io"

	"github.com/jrsteele09/tenant-portal/tenants"
)

// Identity is the canonical result of a successful tenant verification.
type Identity struct {
	ID    string
	Name  string
	Token string // Empty when the backend did not issue one
}

// Client is the full set of operations the portal performs remotely.
type Client interface {
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	VerifyTenant(ctx context.Context, tenantID, apiKey string) (Identity, error)

	// Admin
	GetTenants(ctx context.Context) ([]*tenants.Tenant, error)
	CreateTenant(ctx context.Context, name string) (*tenants.Tenant, error)
	GetTenant(ctx context.Context, tenantID string) (*tenants.Tenant, error)
	UpdateTenantStatus(ctx context.Context, tenantID string, status tenants.Status) (*tenants.Tenant, error)
	RegenerateAPIKey(ctx context.Context, tenantID string) (string, error)

	// Tenant workspace
	GetFiles(ctx context.Context, tenantID string) ([]*tenants.File, error)
	UploadFile(ctx context.Context, tenantID, name string, content io.Reader) (*tenants.File, error)
	DeleteFile(ctx context.Context, tenantID, fileID string) error
	UpdateBranding(ctx context.Context, tenantID, brandColor, font string) (*tenants.Tenant, error)
	GetTeams(ctx context.Context, tenantID string) ([]*tenants.Team, error)
	CreateTeam(ctx context.Context, tenantID string, input tenants.TeamInput) (*tenants.Team, error)
	UpdateTeam(ctx context.Context, tenantID, teamID string, patch tenants.TeamPatch) (*tenants.Team, error)
}

package tenants

import "context"

// Repo persists tenants and the records scoped to them.
type Repo interface {
	List(ctx context.Context) ([]*Tenant, error)
	Get(ctx context.Context, tenantID string) (*Tenant, error)
	Upsert(ctx context.Context, tenant *Tenant) error

	Files(ctx context.Context, tenantID string) ([]*File, error)
	SaveFiles(ctx context.Context, tenantID string, files []*File) error

	Teams(ctx context.Context, tenantID string) ([]*Team, error)
	SaveTeams(ctx context.Context, tenantID string, teams []*Team) error
}

package kvrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/tenant-portal/internal/errors"
	"github.com/jrsteele09/tenant-portal/internal/kvstore"
	"github.com/jrsteele09/tenant-portal/tenants"
	"github.com/rs/zerolog/log"
)

// Storage keys, one JSON document each
const (
	keyTenants = "tenants"
	keyFiles   = "files"
	keyTeams   = "teams"
)

var _ tenants.Repo = (*Repo)(nil)

// Repo keeps all tenants in one document and files/teams in documents
// keyed by tenant ID. Missing or unreadable documents fall back to the
// seed data.
type Repo struct {
	kv   kvstore.KV
	seed Seed
	lock sync.RWMutex
}

// Seed is the initial data served until the first write.
type Seed struct {
	Tenants []*tenants.Tenant
	Files   map[string][]*tenants.File
}

func New(kv kvstore.KV, seed Seed) *Repo {
	return &Repo{kv: kv, seed: seed}
}

// DefaultSeed mirrors the demo organisations the portal ships with.
func DefaultSeed() Seed {
	now := time.Now().UTC()
	return Seed{
		Tenants: []*tenants.Tenant{
			{
				ID:        "tnt_001",
				Name:      "Acme Corp",
				Status:    tenants.StatusActive,
				CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				APIKey:    "ak_test_12345",
			},
			{
				ID:        "tnt_002",
				Name:      "Globex Inc",
				Status:    tenants.StatusDisabled,
				CreatedAt: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
				APIKey:    "ak_test_67890",
			},
		},
		Files: map[string][]*tenants.File{
			"tnt_001": {
				{ID: "file_1", Name: "process_docs.pdf", Size: 1024000, UploadedAt: now, URL: "#"},
				{ID: "file_2", Name: "logo.png", Size: 50000, UploadedAt: now, URL: "#"},
			},
			"tnt_002": {},
		},
	}
}

func (r *Repo) List(ctx context.Context) ([]*tenants.Tenant, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.loadTenants(ctx)
}

func (r *Repo) Get(ctx context.Context, tenantID string) (*tenants.Tenant, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		if t.ID == tenantID {
			return t, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "tenant %s", tenantID)
}

// Upsert replaces the tenant with the same ID or appends a new one.
func (r *Repo) Upsert(ctx context.Context, tenant *tenants.Tenant) error {
	if tenant == nil || tenant.ID == "" {
		return errors.Wrapf(errors.ErrInvalidRequest, "tenant id is required")
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.loadTenants(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i, t := range list {
		if t.ID == tenant.ID {
			list[i] = tenant
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, tenant)
	}
	return r.put(ctx, keyTenants, list)
}

func (r *Repo) Files(ctx context.Context, tenantID string) ([]*tenants.File, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all, err := r.loadFiles(ctx)
	if err != nil {
		return nil, err
	}
	files := all[tenantID]
	if files == nil {
		files = []*tenants.File{}
	}
	return files, nil
}

func (r *Repo) SaveFiles(ctx context.Context, tenantID string, files []*tenants.File) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	all, err := r.loadFiles(ctx)
	if err != nil {
		return err
	}
	all[tenantID] = files
	return r.put(ctx, keyFiles, all)
}

func (r *Repo) Teams(ctx context.Context, tenantID string) ([]*tenants.Team, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all, err := r.loadTeams(ctx)
	if err != nil {
		return nil, err
	}
	teams := all[tenantID]
	if teams == nil {
		teams = []*tenants.Team{}
	}
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})
	return teams, nil
}

func (r *Repo) SaveTeams(ctx context.Context, tenantID string, teams []*tenants.Team) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	all, err := r.loadTeams(ctx)
	if err != nil {
		return err
	}
	all[tenantID] = teams
	return r.put(ctx, keyTeams, all)
}

func (r *Repo) loadTenants(ctx context.Context) ([]*tenants.Tenant, error) {
	var list []*tenants.Tenant
	found, err := r.get(ctx, keyTenants, &list)
	if err != nil {
		return nil, err
	}
	if !found {
		return cloneTenants(r.seed.Tenants), nil
	}
	return list, nil
}

func (r *Repo) loadFiles(ctx context.Context) (map[string][]*tenants.File, error) {
	all := map[string][]*tenants.File{}
	found, err := r.get(ctx, keyFiles, &all)
	if err != nil {
		return nil, err
	}
	if !found {
		all = make(map[string][]*tenants.File, len(r.seed.Files))
		for id, files := range r.seed.Files {
			copied := make([]*tenants.File, 0, len(files))
			for _, f := range files {
				c := *f
				copied = append(copied, &c)
			}
			all[id] = copied
		}
	}
	return all, nil
}

func (r *Repo) loadTeams(ctx context.Context) (map[string][]*tenants.Team, error) {
	all := map[string][]*tenants.Team{}
	found, err := r.get(ctx, keyTeams, &all)
	if err != nil {
		return nil, err
	}
	if !found || all == nil {
		all = map[string][]*tenants.Team{}
	}
	return all, nil
}

// get decodes key into v. A document that does not parse is treated as
// missing so the seed takes over.
func (r *Repo) get(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("[kvrepo] read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Unreadable document, using seed data")
		return false, nil
	}
	return true, nil
}

func (r *Repo) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("[kvrepo] marshal %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("[kvrepo] write %s: %w", key, err)
	}
	return nil
}

func cloneTenants(in []*tenants.Tenant) []*tenants.Tenant {
	out := make([]*tenants.Tenant, 0, len(in))
	for _, t := range in {
		c := *t
		if t.Settings != nil {
			s := *t.Settings
			c.Settings = &s
		}
		out = append(out, &c)
	}
	return out
}

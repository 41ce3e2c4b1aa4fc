// Package localapi serves the portal API operations from local storage.
// It is the offline counterpart of httpapi and is selected by configuration.
package localapi

import (
	"context"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/tenant-portal/internal/errors"
	"github.com/jrsteele09/tenant-portal/portalapi"
	"github.com/jrsteele09/tenant-portal/tenants"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"
)

const (
	idAlphabet   = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength     = 8
	apiKeyLength = 12

	binaryPlaceholder = "Binary Content (Not Displayed)"
)

var _ portalapi.Client = (*Service)(nil)

// Service implements portalapi.Client over a tenants.Repo.
type Service struct {
	repo     tenants.Repo
	validate *validator.Validate
	nowTime  func() time.Time
	// Serialises read-modify-write cycles on the repo
	mu sync.Mutex
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func New(repo tenants.Repo, options ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		validate: validator.New(),
		nowTime:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

type createTenantRequest struct {
	Name string `validate:"required"`
}

type statusRequest struct {
	Status tenants.Status `validate:"required,oneof=active disabled"`
}

type uploadRequest struct {
	Name string `validate:"required"`
}

func (s *Service) Ping(ctx context.Context) error {
	_, err := s.repo.List(ctx)
	return err
}

// VerifyTenant requires both the tenant ID and its API key to match.
// Local verification does not issue a token.
func (s *Service) VerifyTenant(ctx context.Context, tenantID, apiKey string) (portalapi.Identity, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return portalapi.Identity{}, errors.Message(errors.ErrNetwork, err.Error())
	}
	for _, t := range list {
		if t.ID != tenantID || t.APIKey != apiKey {
			continue
		}
		if !t.Active() {
			return portalapi.Identity{}, errors.Message(errors.ErrAccountDisabled, "Account Disabled")
		}
		return portalapi.Identity{ID: t.ID, Name: t.Name}, nil
	}
	return portalapi.Identity{}, errors.Message(errors.ErrInvalidCredentials, "Invalid Credentials")
}

func (s *Service) GetTenants(ctx context.Context) ([]*tenants.Tenant, error) {
	return s.repo.List(ctx)
}

func (s *Service) CreateTenant(ctx context.Context, name string) (*tenants.Tenant, error) {
	if err := s.check(createTenantRequest{Name: name}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := newID("tnt", idLength)
	if err != nil {
		return nil, err
	}
	key, err := newID("ak", apiKeyLength)
	if err != nil {
		return nil, err
	}
	tenant := &tenants.Tenant{
		ID:        id,
		Name:      name,
		Status:    tenants.StatusActive,
		CreatedAt: s.nowTime(),
		APIKey:    key,
	}
	if err := s.repo.Upsert(ctx, tenant); err != nil {
		return nil, err
	}
	if err := s.repo.SaveFiles(ctx, tenant.ID, []*tenants.File{}); err != nil {
		return nil, err
	}
	log.Info().Str("tenant_id", tenant.ID).Msg("Tenant created")
	return tenant, nil
}

func (s *Service) GetTenant(ctx context.Context, tenantID string) (*tenants.Tenant, error) {
	return s.repo.Get(ctx, tenantID)
}

func (s *Service) UpdateTenantStatus(ctx context.Context, tenantID string, status tenants.Status) (*tenants.Tenant, error) {
	if err := s.check(statusRequest{Status: status}); err != nil {
		return nil, err
	}
	return s.mutateTenant(ctx, tenantID, func(t *tenants.Tenant) {
		t.Status = status
	})
}

func (s *Service) RegenerateAPIKey(ctx context.Context, tenantID string) (string, error) {
	key, err := newID("ak", apiKeyLength)
	if err != nil {
		return "", err
	}
	if _, err := s.mutateTenant(ctx, tenantID, func(t *tenants.Tenant) {
		t.APIKey = key
	}); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Service) UpdateBranding(ctx context.Context, tenantID, brandColor, font string) (*tenants.Tenant, error) {
	return s.mutateTenant(ctx, tenantID, func(t *tenants.Tenant) {
		if t.Settings == nil {
			t.Settings = &tenants.Settings{}
		}
		if brandColor != "" {
			t.Settings.BrandColor = brandColor
		}
		if font != "" {
			t.Settings.Font = font
		}
	})
}

func (s *Service) GetFiles(ctx context.Context, tenantID string) ([]*tenants.File, error) {
	return s.repo.Files(ctx, tenantID)
}

// UploadFile stores the file ahead of existing ones. Content that is not
// valid UTF-8 is replaced with a placeholder.
func (s *Service) UploadFile(ctx context.Context, tenantID, name string, content io.Reader) (*tenants.File, error) {
	if err := s.check(uploadRequest{Name: name}); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Wrapf(err, "[UploadFile] read content")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, tenantID); err != nil {
		return nil, err
	}
	id, err := newID("file", idLength)
	if err != nil {
		return nil, err
	}
	text := string(data)
	if !utf8.Valid(data) {
		text = binaryPlaceholder
	}
	file := &tenants.File{
		ID:         id,
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: s.nowTime(),
		URL:        "#",
		Content:    text,
	}

	files, err := s.repo.Files(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	files = append([]*tenants.File{file}, files...)
	if err := s.repo.SaveFiles(ctx, tenantID, files); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *Service) DeleteFile(ctx context.Context, tenantID, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.repo.Files(ctx, tenantID)
	if err != nil {
		return err
	}
	kept := make([]*tenants.File, 0, len(files))
	for _, f := range files {
		if f.ID != fileID {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(files) {
		return errors.Message(errors.ErrNotFound, "File not found")
	}
	return s.repo.SaveFiles(ctx, tenantID, kept)
}

func (s *Service) GetTeams(ctx context.Context, tenantID string) ([]*tenants.Team, error) {
	return s.repo.Teams(ctx, tenantID)
}

func (s *Service) CreateTeam(ctx context.Context, tenantID string, input tenants.TeamInput) (*tenants.Team, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, tenantID); err != nil {
		return nil, errors.Message(errors.ErrNotFound, "Tenant Not Found")
	}
	id, err := newID("team", idLength)
	if err != nil {
		return nil, err
	}
	teamKey, err := newID("tkey", idLength)
	if err != nil {
		return nil, err
	}
	model := input.Model
	if model == "" {
		model = "default"
	}
	team := &tenants.Team{
		ID:        id,
		Name:      input.Name,
		Provider:  input.Provider,
		Model:     model,
		APIKey:    input.APIKey,
		TeamKey:   teamKey,
		CreatedAt: s.nowTime(),
		Styles:    input.Styles,
	}

	teams, err := s.repo.Teams(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveTeams(ctx, tenantID, append(teams, team)); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *Service) UpdateTeam(ctx context.Context, tenantID, teamID string, patch tenants.TeamPatch) (*tenants.Team, error) {
	if err := s.check(patch); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.repo.Teams(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		if team.ID != teamID {
			continue
		}
		patch.Apply(team)
		if err := s.repo.SaveTeams(ctx, tenantID, teams); err != nil {
			return nil, err
		}
		return team, nil
	}
	return nil, errors.Message(errors.ErrNotFound, "Team not found")
}

func (s *Service) mutateTenant(ctx context.Context, tenantID string, mutate func(*tenants.Tenant)) (*tenants.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		return nil, errors.Message(errors.ErrNotFound, "Tenant not found")
	}
	mutate(tenant)
	if err := s.repo.Upsert(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return errors.Message(errors.ErrInvalidRequest, err.Error())
	}
	return nil
}

// newID returns prefix_ followed by size lowercase alphanumerics.
func newID(prefix string, size int) (string, error) {
	suffix, err := gonanoid.Generate(idAlphabet, size)
	if err != nil {
		return "", errors.Wrapf(err, "generate %s id", prefix)
	}
	return prefix + "_" + suffix, nil
}

package tenants

import "time"

// Status of a tenant account. Disabled tenants cannot sign in.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Settings carries per-tenant branding.
type Settings struct {
	BrandColor string `json:"brandColor,omitempty"`
	Font       string `json:"font,omitempty"`
}

// Tenant represents an isolated customer organization with its own files,
// teams and branding.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	APIKey    string    `json:"apiKey"` // Sign-in credential for the tenant workspace
	Settings  *Settings `json:"settings,omitempty"`
}

// Active reports whether the tenant may sign in.
func (t *Tenant) Active() bool {
	return t.Status != StatusDisabled
}

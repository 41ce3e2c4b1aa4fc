package tenants

import "time"

// Provider is the LLM vendor a team is configured against.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

type Team struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Provider  Provider          `json:"provider"`
	Model     string            `json:"model,omitempty"`
	APIKey    string            `json:"apiKey,omitempty"`  // Provider key
	TeamKey   string            `json:"teamKey,omitempty"` // Generated key members use to sign in
	CreatedAt time.Time         `json:"createdAt"`
	Styles    map[string]string `json:"styles,omitempty"`
}

// TeamInput is the payload for creating a team.
type TeamInput struct {
	Name     string            `json:"name" validate:"required"`
	Provider Provider          `json:"provider" validate:"required,oneof=openai anthropic gemini"`
	Model    string            `json:"model,omitempty"`
	APIKey   string            `json:"apiKey,omitempty"`
	Styles   map[string]string `json:"styles,omitempty"`
}

// TeamPatch updates only the fields that are set.
type TeamPatch struct {
	Name     *string            `json:"name,omitempty" validate:"omitempty,min=1"`
	Provider *Provider          `json:"provider,omitempty" validate:"omitempty,oneof=openai anthropic gemini"`
	Model    *string            `json:"model,omitempty"`
	APIKey   *string            `json:"apiKey,omitempty"`
	Styles   *map[string]string `json:"styles,omitempty"`
}

// Apply copies the set fields of p onto team.
func (p TeamPatch) Apply(team *Team) {
	if p.Name != nil {
		team.Name = *p.Name
	}
	if p.Provider != nil {
		team.Provider = *p.Provider
	}
	if p.Model != nil {
		team.Model = *p.Model
	}
	if p.APIKey != nil {
		team.APIKey = *p.APIKey
	}
	if p.Styles != nil {
		team.Styles = *p.Styles
	}
}

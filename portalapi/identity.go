package portalapi

import (
	"encoding/json"

	"github.com/jrsteele09/tenant-portal/internal/errors"
)

type identityFields struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// verifyResponse accepts both shapes the backend has been seen to send:
// {"user": {"id", "name"}, "token"} and the flat {"id", "name", "token"}.
type verifyResponse struct {
	User  *identityFields `json:"user"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Token string          `json:"token"`
}

// DecodeIdentity decodes a tenant verification body into an Identity.
// Bodies matching neither shape fail with ErrNetwork.
func DecodeIdentity(raw []byte) (Identity, error) {
	var resp verifyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Identity{}, errors.Message(errors.ErrNetwork, "malformed tenant verification response: "+err.Error())
	}

	switch {
	case resp.User != nil && resp.User.ID != "":
		return Identity{ID: resp.User.ID, Name: resp.User.Name, Token: resp.Token}, nil
	case resp.ID != "":
		return Identity{ID: resp.ID, Name: resp.Name, Token: resp.Token}, nil
	default:
		return Identity{}, errors.Message(errors.ErrNetwork, "tenant verification response has no user id")
	}
}

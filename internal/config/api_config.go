package config

import "time"

// Backend identifiers for the remote API client
const (
	APIBackendHTTP  = "http"
	APIBackendLocal = "local"
)

type APIConfig interface {
	GetAPIBackend() string
	GetAPIURL() string
	GetAPITimeout() time.Duration
}

type API struct{}

var _ APIConfig = API{}

func (API) GetAPIBackend() string {
	return GetEnv("API_BACKEND", APIBackendLocal)
}

func (API) GetAPIURL() string {
	return GetEnv("API_URL", "http://127.0.0.1:5001")
}

func (API) GetAPITimeout() time.Duration {
	return GetEnvDuration("API_TIMEOUT", 10*time.Second)
}

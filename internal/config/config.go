package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config interface {
	EnvConfig
	CorsConfig
	APIConfig
	SessionConfig
	AdminConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	API
	Session
	Admin
}

var dotEnvOnce sync.Once

// New returns the environment backed configuration. A .env file in the
// working directory is loaded once; variables already set in the process
// environment take precedence.
func New() Config {
	dotEnvOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("No .env file found, using process environment")
		}
	})
	return mainConfig{}
}

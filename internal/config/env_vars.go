package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	folderEnvVar   = "FOLDER"
	logLevelEnvVar = "LOG_LEVEL"

	defaultHost = "127.0.0.1"
	defaultPort = "8080"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetPort is the listen address. PORT may be a bare port or host:port; a
// missing host binds loopback only. Set an explicit host such as 0.0.0.0
// to listen on other interfaces.
func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, defaultPort)
	host, p, err := net.SplitHostPort(port)
	if err != nil {
		host, p = "", strings.TrimPrefix(port, ":")
	}
	if host == "" {
		host = defaultHost
	}
	return net.JoinHostPort(host, p)
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Tenant Portal")
}

// GetDataFolder is where the local backend and the file session driver keep their records
func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(envVar string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(envVar))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

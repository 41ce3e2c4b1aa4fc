package config

type SessionConfig interface {
	GetSessionDriver() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
	GetSQLitePath() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionDriver is one of file, redis, sqlite or memory
func (Session) GetSessionDriver() string {
	return GetEnv("SESSION_DRIVER", "file")
}

func (Session) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Session) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Session) GetRedisDB() int {
	return GetEnvInt("REDIS_DB", 0)
}

func (Session) GetRedisPrefix() string {
	return GetEnv("REDIS_PREFIX", "portal:")
}

func (Session) GetSQLitePath() string {
	return GetEnv("SQLITE_PATH", "./data/portal.db")
}

package config

import (
	"path/filepath"
	"time"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
)

type SessionConfig interface {
	GetSessionBackend() string
	GetSessionFile() string
	GetSessionSecret() string
	GetSessionCookieName() string
	GetMaxSessionAge() time.Duration
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKeyPrefix() string
}

type Sessions struct{}

var _ SessionConfig = Sessions{}

func (Sessions) GetSessionBackend() string {
	return GetEnv("SESSION_BACKEND", SessionBackendFile)
}

func (Sessions) GetSessionFile() string {
	return filepath.Join(EnvVars{}.GetDataFolder(), "sessions.bin")
}

// GetSessionSecret seals the session file at rest
func (Sessions) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "dev-only-session-secret")
}

func (Sessions) GetSessionCookieName() string {
	return "tanmore_session"
}

func (Sessions) GetMaxSessionAge() time.Duration {
	return GetEnvDuration("SESSION_MAX_AGE", 30*24*time.Hour)
}

func (Sessions) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Sessions) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Sessions) GetRedisDB() int {
	return GetEnvInt("REDIS_DB", 0)
}

func (Sessions) GetRedisKeyPrefix() string {
	return GetEnv("REDIS_KEY_PREFIX", "tanmore-auth:")
}

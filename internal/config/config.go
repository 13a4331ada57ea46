package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	OAuthConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetBaseURL() string
	GetEnv() string
}

// APIConfig describes how the storefront reaches the marketplace REST API
type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetPlatform() string
	GetDeviceFingerprint() string
	GetFeedPageSize() int
}

type mainConfig struct {
	EnvVars
	API
	OAuth
	Sessions
}

func New() Config {
	return mainConfig{}
}

package config

import "time"

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the origin of the marketplace REST API
func (API) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:8080")
}

func (API) GetAPITimeout() time.Duration {
	return GetEnvDuration("API_TIMEOUT", 15*time.Second)
}

// GetPlatform is sent as X-Platform on auth calls
func (API) GetPlatform() string {
	return "web"
}

// GetDeviceFingerprint is sent as X-Device-Fingerprint on auth calls
func (API) GetDeviceFingerprint() string {
	return GetEnv("DEVICE_FINGERPRINT", "storefront-web")
}

func (API) GetFeedPageSize() int {
	return GetEnvInt("FEED_PAGE_SIZE", 10)
}

package constants

import "time"

// Application Information
const (
	AppName    = "Edu Booster API"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Cache Key Prefixes
const (
	CacheKeyPrefix  = "booster:"
	CacheKeyProfile = CacheKeyPrefix + "profile:"
)

// ProfileCacheTTL bounds how stale a cached profile read may be.
const ProfileCacheTTL = 5 * time.Minute

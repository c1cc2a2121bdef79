// Package config provides centralized default values for JourneyKit
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database Configuration
	DBDriver                 string
	DBPath                   string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int

	// Organization / Access Configuration
	CompanyID        string
	JWTSecret        string
	AdminPassword    string
	CustomerPassword string
	TokenLifetime    time.Duration
	AccessDevBypass  bool

	// Builder Session Configuration
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration

	// Media Configuration
	MediaBasePath      string
	MediaPublicPrefix  string
	MaxUploadSizeBytes int
)

// Load reads env-derived settings into the package vars. Call once at
// startup, after any .env file has been loaded into the environment.
func Load() {
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second)

	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "journeykit.db")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)

	CompanyID = getEnvString("COMPANY_ID", "")
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")
	CustomerPassword = getEnvString("CUSTOMER_PASSWORD", "")
	TokenLifetime = getEnvDuration("TOKEN_LIFETIME", 24*time.Hour)
	AccessDevBypass = getEnvBool("ACCESS_DEV_BYPASS", false)

	SessionTTL = getEnvDuration("SESSION_TTL", 4*time.Hour)
	SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", 15*time.Minute)

	MediaBasePath = getEnvString("MEDIA_BASE_PATH", "media")
	MediaPublicPrefix = getEnvString("MEDIA_PUBLIC_PREFIX", "/media")
	MaxUploadSizeBytes = getEnvInt("MAX_UPLOAD_SIZE_BYTES", 10*1024*1024)
}

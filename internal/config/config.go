// Package config centralizes how the portal reads environment variables and
// exposes them as typed values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the runtime configuration for the service.
type Config struct {
	Address string

	// Record store.
	DatabaseURL string

	// Object storage for attachments.
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3UseSSL      bool
	S3Region      string
	MediaBucket   string
	PublicBaseURL string
	StoragePrefix string

	// Notifications.
	ResendAPIKey string
	EmailFrom    string
	AdminEmail   string

	// Session tokens for the protected admin surface.
	JWTSecret []byte

	// Limits and timeouts.
	MaxUploadBytes  int64
	MaxFileBytes    int64
	UploadTimeout   time.Duration
	PersistTimeout  time.Duration
	NotifyTimeout   time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultAddress        = ":8080"
	defaultMediaBucket    = "portal-adjuntos"
	defaultStoragePrefix  = "portal_idi"
	defaultEmailFrom      = "Portal IDI <onboarding@resend.dev>"
	defaultAdminEmail     = "proyectos@fundacionidi.org"
	defaultMaxUploadBytes = 60 << 20 // whole multipart body
	defaultMaxFileBytes   = 10 << 20 // per attachment
	defaultUploadTimeout  = 30 * time.Second
	defaultPersistTimeout = 10 * time.Second
	defaultNotifyTimeout  = 10 * time.Second
	defaultShutdown       = 5 * time.Second
)

// Load reads configuration from PORTAL_* environment variables. Credentials
// for the record store, the mailer, object storage and the token secret have
// no defaults; a missing one is reported so startup can fail before any
// request is served.
func Load() (*Config, error) {
	cfg := &Config{
		Address:         readEnv("PORTAL_ADDRESS", defaultAddress),
		DatabaseURL:     os.Getenv("PORTAL_DATABASE_URL"),
		S3Endpoint:      os.Getenv("PORTAL_S3_ENDPOINT"),
		S3AccessKey:     os.Getenv("PORTAL_S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("PORTAL_S3_SECRET_KEY"),
		S3UseSSL:        parseBool("PORTAL_S3_USE_SSL", true),
		S3Region:        os.Getenv("PORTAL_S3_REGION"),
		MediaBucket:     readEnv("PORTAL_MEDIA_BUCKET", defaultMediaBucket),
		PublicBaseURL:   os.Getenv("PORTAL_PUBLIC_BASE_URL"),
		StoragePrefix:   readEnv("PORTAL_STORAGE_PREFIX", defaultStoragePrefix),
		ResendAPIKey:    os.Getenv("PORTAL_RESEND_API_KEY"),
		EmailFrom:       readEnv("PORTAL_EMAIL_FROM", defaultEmailFrom),
		AdminEmail:      readEnv("PORTAL_ADMIN_EMAIL", defaultAdminEmail),
		JWTSecret:       []byte(os.Getenv("PORTAL_JWT_SECRET")),
		MaxUploadBytes:  parseInt64("PORTAL_MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		MaxFileBytes:    parseInt64("PORTAL_MAX_FILE_BYTES", defaultMaxFileBytes),
		UploadTimeout:   parseDuration("PORTAL_UPLOAD_TIMEOUT", defaultUploadTimeout),
		PersistTimeout:  parseDuration("PORTAL_PERSIST_TIMEOUT", defaultPersistTimeout),
		NotifyTimeout:   parseDuration("PORTAL_NOTIFY_TIMEOUT", defaultNotifyTimeout),
		ShutdownTimeout: parseDuration("PORTAL_SHUTDOWN_TIMEOUT", defaultShutdown),
	}
	if cfg.PublicBaseURL == "" {
		scheme := "http"
		if cfg.S3UseSSL {
			scheme = "https"
		}
		cfg.PublicBaseURL = fmt.Sprintf("%s://%s", scheme, cfg.S3Endpoint)
	}

	var missing []string
	for _, req := range []struct {
		name  string
		empty bool
	}{
		{"PORTAL_DATABASE_URL", cfg.DatabaseURL == ""},
		{"PORTAL_S3_ENDPOINT", cfg.S3Endpoint == ""},
		{"PORTAL_S3_ACCESS_KEY", cfg.S3AccessKey == ""},
		{"PORTAL_S3_SECRET_KEY", cfg.S3SecretKey == ""},
		{"PORTAL_RESEND_API_KEY", cfg.ResendAPIKey == ""},
		{"PORTAL_JWT_SECRET", len(cfg.JWTSecret) == 0},
	} {
		if req.empty {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = defaultMaxFileBytes
	}
	return cfg, nil
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

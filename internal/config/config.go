package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Backend
		Metadata
		UI
		Session
		CSRF
		Covers
		Gallery
		Tasks
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Backend struct {
		APIURL  string // Base URL shared by every backend call
		Timeout time.Duration
	}
	Metadata struct {
		RateLimit float64 // Lookups per second, 0 = unlimited
		Burst     int
		Timeout   time.Duration
	}
	UI struct {
		PlaceholderImage string
		GinMode          string
	}
	Session struct {
		Lifetime      time.Duration
		DBPath        string // Empty keeps sessions in memory
		SecureCookies bool
		FormTTL       time.Duration
	}
	CSRF struct {
		Enabled bool
		Secret  string // 32 bytes; generated per process if empty
	}
	Covers struct {
		CacheDir      string
		PruneEnabled  bool
		PruneSchedule string
		MaxAge        time.Duration
	}
	Gallery struct {
		Limit int
	}
	Tasks struct {
		Enabled bool // Background cover warm-up; needs the cover cache
		DBPath  string
		Workers int
	}
	Log struct {
		Format string // text or json
		Level  string
	}
)

// getAPIURL prefers API_URL and falls back to the legacy VITE_API_URL.
func getAPIURL(v *viper.Viper) string {
	if url := v.GetString("API_URL"); url != "" {
		return url
	}
	return v.GetString("VITE_API_URL")
}

// LoadDotEnv reads .env files into the environment without overriding variables
// that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("api_url", "")
	v.SetDefault("vite_api_url", DefaultAPIURL)
	v.SetDefault("api_timeout", "15s")

	v.SetDefault("metadata_rate_limit", 0)
	v.SetDefault("metadata_burst", 4)
	v.SetDefault("metadata_timeout", "10s")

	v.SetDefault("placeholder_image", DefaultPlaceholderImage)
	v.SetDefault("gin_mode", "release")

	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_db_path", "")
	v.SetDefault("session_secure_cookies", false)
	v.SetDefault("session_form_ttl", "30m")

	v.SetDefault("csrf_enabled", true)
	v.SetDefault("csrf_secret", "")

	v.SetDefault("covers_cache_dir", "./covers")
	v.SetDefault("covers_prune_enabled", true)
	v.SetDefault("covers_prune_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("covers_max_age", "168h")

	v.SetDefault("gallery_limit", 4)

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_db_path", "./bookshelf-tasks.db")
	v.SetDefault("tasks_workers", 2)

	v.SetDefault("log_format", "text")
	v.SetDefault("log_level", "info")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Backend: Backend{
			APIURL:  getAPIURL(v),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Metadata: Metadata{
			RateLimit: v.GetFloat64("METADATA_RATE_LIMIT"),
			Burst:     v.GetInt("METADATA_BURST"),
			Timeout:   v.GetDuration("METADATA_TIMEOUT"),
		},
		UI: UI{
			PlaceholderImage: v.GetString("PLACEHOLDER_IMAGE"),
			GinMode:          v.GetString("GIN_MODE"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			DBPath:        v.GetString("SESSION_DB_PATH"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
			FormTTL:       v.GetDuration("SESSION_FORM_TTL"),
		},
		CSRF: CSRF{
			Enabled: v.GetBool("CSRF_ENABLED"),
			Secret:  v.GetString("CSRF_SECRET"),
		},
		Covers: Covers{
			CacheDir:      v.GetString("COVERS_CACHE_DIR"),
			PruneEnabled:  v.GetBool("COVERS_PRUNE_ENABLED"),
			PruneSchedule: v.GetString("COVERS_PRUNE_SCHEDULE"),
			MaxAge:        v.GetDuration("COVERS_MAX_AGE"),
		},
		Gallery: Gallery{
			Limit: v.GetInt("GALLERY_LIMIT"),
		},
		Tasks: Tasks{
			Enabled: v.GetBool("TASKS_ENABLED"),
			DBPath:  v.GetString("TASKS_DB_PATH"),
			Workers: v.GetInt("TASKS_WORKERS"),
		},
		Log: Log{
			Format: v.GetString("LOG_FORMAT"),
			Level:  v.GetString("LOG_LEVEL"),
		},
	}
}

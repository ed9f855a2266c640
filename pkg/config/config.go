package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Supabase/hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	ERP ERPConfig

	Rental RentalConfig

	Engine EngineConfig

	Activation ActivationConfig

	Log LogConfig

	// AllowedOrigins is a comma-separated allowlist of back-office UI origins. Example:
	//   https://admin.v-rent.example,http://localhost:5173
	AllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type ERPConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string

	RentalDoctype  string
	VehicleDoctype string

	// StageField is the vehicle document field that holds the availability stage.
	StageField string
	// StageFormat selects how a stage is written back: "th" (Thai label), "en" or "token".
	StageFormat string

	PageSize int
	Timeout  time.Duration

	// SessionSecret verifies staff session tokens issued by the ERP login (HS256).
	SessionSecret   string
	SessionAudience string
	// AdminRole, when set, is required to change the activation record.
	AdminRole string
}

type RentalConfig struct {
	// TimeZone is applied to timestamps the ERP sends without an offset.
	TimeZone string
	// VehicleCodePattern finds vehicle document codes inside free-text vehicle names.
	VehicleCodePattern string
}

type EngineConfig struct {
	// TickInterval re-evaluates cached records so overdue stages stay current.
	TickInterval time.Duration
	// RefetchInterval re-reads rentals and vehicles from the ERP.
	RefetchInterval time.Duration
}

type ActivationConfig struct {
	Concurrency  int
	ReleaseEnded bool
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "vrent"),
			User:     env("DB_USER", "vrent"),
			Password: env("DB_PASSWORD", "vrent"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		ERP: ERPConfig{
			BaseURL:         env("ERP_BASE_URL", "http://localhost:8000"),
			APIKey:          os.Getenv("ERP_API_KEY"),
			APISecret:       os.Getenv("ERP_API_SECRET"),
			RentalDoctype:   env("ERP_RENTAL_DOCTYPE", "Rental"),
			VehicleDoctype:  env("ERP_VEHICLE_DOCTYPE", "Vehicle"),
			StageField:      env("ERP_STAGE_FIELD", "stage"),
			StageFormat:     env("ERP_STAGE_FORMAT", "th"),
			PageSize:        envInt("ERP_PAGE_SIZE", 500),
			Timeout:         envDuration("ERP_TIMEOUT", 20*time.Second),
			SessionSecret:   os.Getenv("ERP_SESSION_SECRET"),
			SessionAudience: os.Getenv("ERP_SESSION_AUDIENCE"),
			AdminRole:       os.Getenv("ERP_ADMIN_ROLE"),
		},
		Rental: RentalConfig{
			TimeZone:           env("RENTAL_TIMEZONE", "Asia/Bangkok"),
			VehicleCodePattern: os.Getenv("RENTAL_VEHICLE_CODE_PATTERN"),
		},
		Engine: EngineConfig{
			TickInterval:    envDuration("ENGINE_TICK_INTERVAL", 60*time.Second),
			RefetchInterval: envDuration("ENGINE_REFETCH_INTERVAL", 5*time.Minute),
		},
		Activation: ActivationConfig{
			Concurrency:  envInt("ACTIVATION_CONCURRENCY", 4),
			ReleaseEnded: envBool("ACTIVATION_RELEASE_ENDED", false),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "json"),
		},

		AllowedOrigins: envList("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
	}
}

// Location resolves RENTAL_TIMEZONE, falling back to UTC+7 when tzdata is missing.
func (c RentalConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.TimeZone); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*60*60)
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return b
}

// envDuration accepts Go durations ("90s") or plain seconds ("90").
func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

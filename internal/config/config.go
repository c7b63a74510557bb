package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	// Set when dev secrets were generated at startup. Tokens then die with
	// the process.
	EphemeralSecrets bool

	// Emails listed here gain the admin role on their next login.
	AdminEmails []string

	SiteName     string
	BaseURL      string
	ResendAPIKey string
	ResendFrom   string
	CORSOrigins  []string

	ResetRequestsPerHour int
}

// Load reads .env (unless ENV_CHEK is set) and then the process environment.
func Load() (Config, error) {
	if os.Getenv("ENV_CHEK") == "" {
		// A missing .env is fine: the variables may come from the orchestrator.
		_ = godotenv.Load()
	}

	cfg := Config{
		Env:      getenv("APP_ENV", "dev"),
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		DBDriver:   getenv("DB_DRIVER", "postgres"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME", "hoops"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_ACCESS_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),

		AdminEmails: splitList(os.Getenv("ADMIN_EMAILS"), true),

		SiteName:     getenv("SITE_NAME", "Seattle Basketball"),
		BaseURL:      strings.TrimRight(getenv("BASE_URL", "http://localhost:8080"), "/"),
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		ResendFrom:   os.Getenv("RESEND_FROM"),
		CORSOrigins:  splitList(getenv("CORS_ORIGINS", "*"), false),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.ResetRequestsPerHour, err = getInt("RESET_REQUESTS_PER_HOUR", 5); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}

	if cfg.Env == "dev" {
		if cfg.EphemeralSecrets, err = cfg.fillDevSecrets(); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants that involve more than one field.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or mysql)", c.DBDriver)
	}
	if len(c.JWTAccessSecret) == 0 || len(c.JWTRefreshSecret) == 0 {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required when APP_ENV=%s", c.Env)
	}
	if c.ResetRequestsPerHour < 1 {
		return fmt.Errorf("RESET_REQUESTS_PER_HOUR must be >= 1")
	}
	return nil
}

// fillDevSecrets replaces missing JWT secrets with random ones.
func (c *Config) fillDevSecrets() (bool, error) {
	generated := false
	for _, secret := range []*[]byte{&c.JWTAccessSecret, &c.JWTRefreshSecret} {
		if len(*secret) > 0 {
			continue
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return false, fmt.Errorf("generate dev jwt secret: %w", err)
		}
		*secret = []byte(hex.EncodeToString(buf))
		generated = true
	}
	return generated, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string, lower bool) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lower {
			part = strings.ToLower(part)
		}
		out = append(out, part)
	}
	return out
}

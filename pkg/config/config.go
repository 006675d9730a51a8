package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Gestao   GestaoConfig
	Seed     SeedConfig
	HTTP     HTTPConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TLS      bool
}

// SessionConfig controls the signed session cookie and its server-side record.
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// GestaoConfig holds the shared PIN that unlocks the management mode.
type GestaoConfig struct {
	PIN string
}

// SeedConfig lists the baseline accounts ensured at startup.
type SeedConfig struct {
	AdminUsername     string
	AdminPassword     string
	ProfessorUsername string
	ProfessorPassword string
}

type HTTPConfig struct {
	TrustedProxies []string
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DATABASE_URL"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TLS:      v.GetBool("REDIS_TLS"),
	}

	cfg.Session = SessionConfig{
		Secret:       v.GetString("SECRET_KEY"),
		TTL:          parseDuration(v.GetString("SESSION_TTL"), 12*time.Hour),
		CookieName:   v.GetString("SESSION_COOKIE_NAME"),
		CookieSecure: v.GetBool("COOKIE_SECURE"),
	}

	cfg.Gestao = GestaoConfig{PIN: v.GetString("GESTAO_PIN")}

	cfg.Seed = SeedConfig{
		AdminUsername:     v.GetString("SEED_ADMIN_USER"),
		AdminPassword:     v.GetString("APP_ADMIN_PASS"),
		ProfessorUsername: v.GetString("SEED_PROF_USER"),
		ProfessorPassword: v.GetString("SEED_PROF_PASS"),
	}

	cfg.HTTP = HTTPConfig{
		TrustedProxies: splitAndTrim(v.GetString("TRUSTED_PROXIES")),
		AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the server must not start with. Development
// defaults for secrets are only tolerated outside production.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Env != EnvProduction {
		return nil
	}

	var missing []string
	for key, value := range map[string]string{
		"SECRET_KEY":     c.Session.Secret,
		"GESTAO_PIN":     c.Gestao.PIN,
		"APP_ADMIN_PASS": c.Seed.AdminPassword,
		"SEED_PROF_PASS": c.Seed.ProfessorPassword,
	} {
		if value == "" || value == developmentDefaults[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("production requires explicit values for: %s", strings.Join(missing, ", "))
	}
	return nil
}

var developmentDefaults = map[string]string{
	"SECRET_KEY":     "dev-key",
	"GESTAO_PIN":     "adm123",
	"APP_ADMIN_PASS": "gestao-dev",
	"SEED_PROF_PASS": "1234",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TLS", false)

	v.SetDefault("SECRET_KEY", developmentDefaults["SECRET_KEY"])
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SESSION_COOKIE_NAME", "tutorias_session")
	v.SetDefault("COOKIE_SECURE", false)

	v.SetDefault("GESTAO_PIN", developmentDefaults["GESTAO_PIN"])

	v.SetDefault("SEED_ADMIN_USER", "gestao")
	v.SetDefault("APP_ADMIN_PASS", developmentDefaults["APP_ADMIN_PASS"])
	v.SetDefault("SEED_PROF_USER", "renato")
	v.SetDefault("SEED_PROF_PASS", developmentDefaults["SEED_PROF_PASS"])

	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// viper reports a missing .env through the os layer rather than ConfigFileNotFoundError
// when SetConfigFile is used.
func isMissingFile(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

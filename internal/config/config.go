package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config carries every environment option the relay recognizes. Database
// options mirror the variables the automation stack already provisions
// (DB_HOST, DB_USER, ...); DASHBOARD_URL is the single browser origin allowed
// to call the HTTP and websocket surfaces.
type Config struct {
	AppEnv     string `env:"APP_ENV" default:"development"`
	Port       string `env:"PORT" default:"3001"`
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" default:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBSSLMode  string `env:"DB_SSLMODE" default:"prefer"`

	DashboardURL string `env:"DASHBOARD_URL"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	MaxWSClients int `env:"MAX_WS_CLIENTS" default:"256"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var validSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DB_HOST": cfg.DBHost,
		"DB_USER": cfg.DBUser,
		"DB_NAME": cfg.DBName,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if !validSSLModes[cfg.DBSSLMode] {
		return fmt.Errorf("DB_SSLMODE %q is not a valid sslmode", cfg.DBSSLMode)
	}

	if cfg.MaxWSClients <= 0 {
		return fmt.Errorf("MAX_WS_CLIENTS must be positive, got %d", cfg.MaxWSClients)
	}

	if cfg.DashboardURL != "" {
		u, err := url.Parse(cfg.DashboardURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("DASHBOARD_URL %q is not a valid origin URL", cfg.DashboardURL)
		}
	}

	return nil
}

// DatabaseURL assembles the pgx connection string from the individual
// DB_* variables.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	if c.DBPassword != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	} else {
		u.User = url.User(c.DBUser)
	}
	return u.String()
}

// IsDevelopment reports whether the relay runs with development conveniences
// (localhost websocket origins allowed).
func (c *Config) IsDevelopment() bool {
	return c.AppEnv != "production"
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read, when present, before the process environment.
const DefaultEnvFile = ".env"

// Environment variable names.
const (
	EnvHTTPPort          = "DASHBOARD_HTTP_PORT"
	EnvSQLiteDSN         = "DASHBOARD_SQLITE_DSN"
	EnvSessionSecret     = "DASHBOARD_SESSION_SECRET"
	EnvSessionTTL        = "DASHBOARD_SESSION_TTL"
	EnvAdminUser         = "DASHBOARD_ADMIN_USER"
	EnvAdminPasswordHash = "DASHBOARD_ADMIN_PASSWORD_HASH"
	EnvNextItemSpec      = "DASHBOARD_NEXT_ITEM_SPEC"
	EnvStaticDir         = "DASHBOARD_STATIC_DIR"
	EnvSecureCookies     = "DASHBOARD_SECURE_COOKIES"
)

// Config captures environment driven configuration values for the dashboard.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	SessionSecret     string
	SessionTTL        time.Duration
	AdminUser         string
	AdminPasswordHash string
	NextItemSpec      string
	StaticDir         string
	SecureCookies     bool
}

// LoadFrom reads envFile, if it exists, and then parses the process
// environment. Variables already present in the environment win over the
// file. An empty path skips the file.
//
// Defaults are applied for optional fields; every malformed value is
// reported in a single error.
func LoadFrom(envFile string) (Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:     8080,
		SQLiteDSN:    "dashboard.db",
		SessionTTL:   12 * time.Hour,
		AdminUser:    "admin",
		NextItemSpec: "@every 1m",
	}

	invalid := make([]string, 0, 3)

	if portValue := lookup(EnvHTTPPort); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, EnvHTTPPort)
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := lookup(EnvSQLiteDSN); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	cfg.SessionSecret = lookup(EnvSessionSecret)

	if ttlValue := lookup(EnvSessionTTL); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, EnvSessionTTL)
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if user := lookup(EnvAdminUser); user != "" {
		cfg.AdminUser = user
	}
	cfg.AdminPasswordHash = lookup(EnvAdminPasswordHash)

	if spec := lookup(EnvNextItemSpec); spec != "" {
		cfg.NextItemSpec = spec
	}
	cfg.StaticDir = lookup(EnvStaticDir)

	if secureValue := lookup(EnvSecureCookies); secureValue != "" {
		secure, err := strconv.ParseBool(secureValue)
		if err != nil {
			invalid = append(invalid, EnvSecureCookies)
		} else {
			cfg.SecureCookies = secure
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("valor inválido nas variáveis de ambiente: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// RequireServe reports the variables the HTTP server cannot start without.
func (c Config) RequireServe() error {
	missing := make([]string, 0, 2)
	if c.SessionSecret == "" {
		missing = append(missing, EnvSessionSecret)
	}
	if c.AdminPasswordHash == "" {
		missing = append(missing, EnvAdminPasswordHash)
	}
	if len(missing) > 0 {
		return fmt.Errorf("variáveis de ambiente obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SetEnvFileValue writes key=value into envFile, keeping the other entries.
// The file is created when it does not exist.
func SetEnvFileValue(envFile, key, value string) error {
	values := map[string]string{}
	if _, err := os.Stat(envFile); err == nil {
		existing, err := godotenv.Read(envFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		values = existing
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", envFile, err)
	}

	values[key] = value
	if err := godotenv.Write(values, envFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", envFile, err)
	}
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

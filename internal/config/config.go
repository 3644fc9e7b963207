// Package config loads clawledge.yaml and applies environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "clawledge.yaml"

type Config struct {
	Data     DataConfig     `yaml:"data"`
	Database DatabaseConfig `yaml:"database"`
	Sheet    SheetConfig    `yaml:"sheet"`
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Verify   VerifyConfig   `yaml:"verify"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DataConfig struct {
	Cases        string `yaml:"cases"`
	Repositories string `yaml:"repositories"`
	PendingDir   string `yaml:"pending_dir"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SheetConfig selects the submission sheet. Backend is "google" or
// "sqlite"; the service-account key only comes from the environment.
type SheetConfig struct {
	Backend             string `yaml:"backend"`
	SpreadsheetID       string `yaml:"spreadsheet_id"`
	SheetName           string `yaml:"sheet_name"`
	CredentialsFile     string `yaml:"credentials_file"`
	ServiceAccountEmail string `yaml:"service_account_email"`
	PrivateKey          string `yaml:"-"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigin  string        `yaml:"allowed_origin"`
	TrustedProxies []string      `yaml:"trusted_proxies"`
	RateLimit      int           `yaml:"rate_limit"`
	RateWindow     time.Duration `yaml:"rate_window"`
}

type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"`
	JWTIssuer         string        `yaml:"jwt_issuer"`
	JWTDuration       time.Duration `yaml:"jwt_duration"`
	AdminUser         string        `yaml:"admin_user"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
}

type VerifyConfig struct {
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
	Delay     time.Duration `yaml:"delay"`
	UserAgent string        `yaml:"user_agent"`
	OEmbedURL string        `yaml:"oembed_url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return &Config{
		Data: DataConfig{
			Cases:        filepath.Join("src", "data", "use-cases.json"),
			Repositories: filepath.Join("src", "data", "repositories.json"),
			PendingDir:   filepath.Join("scripts", "pending"),
		},
		Database: DatabaseConfig{
			Path: filepath.Join(home, ".clawledge", "clawledge.db"),
		},
		Sheet: SheetConfig{
			Backend:         "google",
			SheetName:       "Tabellenblatt1",
			CredentialsFile: filepath.Join("Google Cloud Console", "credentials.json"),
		},
		Server: ServerConfig{
			Addr:           ":8080",
			TrustedProxies: []string{"127.0.0.1"},
			RateLimit:      3,
			RateWindow:     time.Hour,
		},
		Auth: AuthConfig{
			// dev default (change for production)
			JWTSecret:   "dev-secret-change-me",
			JWTIssuer:   "clawledge",
			JWTDuration: 24 * time.Hour,
			AdminUser:   "admin",
		},
		Verify: VerifyConfig{
			BatchSize: 5,
			Timeout:   10 * time.Second,
			Delay:     200 * time.Millisecond,
			UserAgent: "Mozilla/5.0 (compatible; ClawledgeBot/1.0)",
			OEmbedURL: "https://publish.twitter.com/oembed?url=",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	setString(&c.Data.Cases, "CLAWLEDGE_DATA")
	setString(&c.Data.PendingDir, "CLAWLEDGE_PENDING_DIR")
	setString(&c.Database.Path, "CLAWLEDGE_DB_PATH")
	setString(&c.Sheet.Backend, "CLAWLEDGE_SHEET_BACKEND")
	setString(&c.Server.Addr, "CLAWLEDGE_ADDR")
	setString(&c.Server.AllowedOrigin, "CLAWLEDGE_ALLOWED_ORIGIN")
	setString(&c.Auth.JWTSecret, "CLAWLEDGE_JWT_SECRET")
	setString(&c.Auth.JWTIssuer, "CLAWLEDGE_JWT_ISSUER")
	setString(&c.Auth.AdminUser, "CLAWLEDGE_ADMIN_USER")
	setString(&c.Auth.AdminPasswordHash, "CLAWLEDGE_ADMIN_PASSWORD_HASH")
	setString(&c.Logging.Level, "CLAWLEDGE_LOG_LEVEL")

	// hours; unparseable values keep the current duration
	if v := os.Getenv("CLAWLEDGE_JWT_TTL_HOURS"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			c.Auth.JWTDuration = time.Duration(h) * time.Hour
		}
	}

	setString(&c.Sheet.SpreadsheetID, "GOOGLE_SHEET_ID")
	setString(&c.Sheet.ServiceAccountEmail, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	setString(&c.Sheet.PrivateKey, "GOOGLE_PRIVATE_KEY")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

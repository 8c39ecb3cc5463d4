// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath        = "config.toml"
	DefaultHTTPAddr          = ":8080"
	DefaultJWTExpiresIn      = "24h"
	DefaultSessionsPath      = "data/sessions.db"
	DefaultSessionsRetention = "720h"
	DefaultJanitorSchedule   = "@every 1h"
	DefaultDirectoryPath     = "/api/directory"
	DefaultDirectoryTimeout  = 15
	DefaultPeopleBaseURL     = "https://people.googleapis.com"
	DefaultPeoplePageSize    = 500
	DefaultPeopleRatePerSec  = 5
	DefaultAppsCatalogPath   = "apps.toml"
	DefaultAppsGridSize      = 9
	DefaultCLISessionFile    = ".dashboard/session"
	DefaultCLILogFile        = ".dashboard/cli.log"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Server    ServerConfig    `toml:"server"`
	Auth      AuthConfig      `toml:"auth"`
	Google    GoogleConfig    `toml:"google"`
	Sessions  SessionsConfig  `toml:"sessions"`
	Directory DirectoryConfig `toml:"directory"`
	People    PeopleConfig    `toml:"people"`
	Apps      AppsConfig      `toml:"apps"`
	CRM       CRMConfig       `toml:"crm"`
	CLI       CLIConfig       `toml:"cli"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AuthConfig holds JWT secret and session token expiry (e.g. 24h).
type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// GoogleConfig holds the OAuth client used for sign-in and directory access.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
	// HostedDomain restricts the consent screen to one Workspace domain.
	HostedDomain string `toml:"hosted_domain"`
}

// SessionsConfig holds the OAuth token store location and pruning policy.
type SessionsConfig struct {
	Path            string `toml:"path"`
	Retention       string `toml:"retention"`
	JanitorSchedule string `toml:"janitor_schedule"`
}

// DirectoryConfig holds the directory endpoint path the CLI fetches from.
type DirectoryConfig struct {
	Path           string `toml:"path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PeopleConfig holds Google People API access parameters.
type PeopleConfig struct {
	BaseURL       string  `toml:"base_url"`
	PageSize      int     `toml:"page_size"`
	RatePerSecond float64 `toml:"rate_per_second"`
}

// AppsConfig holds the app launcher catalog file and tile grid size.
type AppsConfig struct {
	CatalogPath string `toml:"catalog_path"`
	GridSize    int    `toml:"grid_size"`
}

// CRMConfig holds the CRM API base URL.
type CRMConfig struct {
	BaseURL string `toml:"base_url"`
}

// CLIConfig holds terminal client settings.
type CLIConfig struct {
	APIURL      string `toml:"api_url"`
	SessionFile string `toml:"session_file"`
	LogFile     string `toml:"log_file"`
}

// APIBaseURL returns the CLI api url, derived from the server address when unset.
func (c Config) APIBaseURL() string {
	if v := strings.TrimSpace(c.CLI.APIURL); v != "" {
		return strings.TrimRight(v, "/")
	}
	addr := strings.TrimSpace(c.Server.Addr)
	switch {
	case addr == "":
		return ""
	case strings.HasPrefix(addr, "http://"), strings.HasPrefix(addr, "https://"):
		return strings.TrimRight(addr, "/")
	case strings.HasPrefix(addr, ":"):
		return "http://127.0.0.1" + addr
	default:
		return "http://" + addr
	}
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		Sessions: SessionsConfig{
			Path:            DefaultSessionsPath,
			Retention:       DefaultSessionsRetention,
			JanitorSchedule: DefaultJanitorSchedule,
		},
		Directory: DirectoryConfig{
			Path:           DefaultDirectoryPath,
			TimeoutSeconds: DefaultDirectoryTimeout,
		},
		People: PeopleConfig{
			BaseURL:       DefaultPeopleBaseURL,
			PageSize:      DefaultPeoplePageSize,
			RatePerSecond: DefaultPeopleRatePerSec,
		},
		Apps: AppsConfig{
			CatalogPath: DefaultAppsCatalogPath,
			GridSize:    DefaultAppsGridSize,
		},
		CLI: CLIConfig{
			SessionFile: DefaultCLISessionFile,
			LogFile:     DefaultCLILogFile,
		},
	}
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Package config resolves tool settings from a three-layer override chain:
// TOML config file -> environment variables -> CLI flags. The precedence
// order ensures flags always win, matching user expectations for one-off
// overrides without editing the config file, while keeping secrets out of
// argv and shell history via the file and env layers.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Environment variable names for overrides.
const (
	EnvConfig       = "ONEDRIVE_DL_CONFIG"
	EnvClientID     = "ONEDRIVE_DL_CLIENT_ID"
	EnvClientSecret = "ONEDRIVE_DL_CLIENT_SECRET"
	EnvTenantID     = "ONEDRIVE_DL_TENANT_ID"
	EnvRegion       = "ONEDRIVE_DL_REGION"
)

// DefaultRegion is the search region restriction applied when neither
// config, env, nor flag names one.
const DefaultRegion = "IND"

// Settings holds the effective configuration for one run. Field tags
// name the TOML keys.
type Settings struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	TenantID     string `toml:"tenant_id"`
	Region       string `toml:"region"`
	DownloadPath string `toml:"download_path"`
	Transfers    int    `toml:"transfers"`
	KeepGoing    bool   `toml:"keep_going"`
}

// Default returns Settings populated with all default values, supporting a
// zero-config first run (credentials then come from env or flags).
func Default() *Settings {
	return &Settings{
		Region:    DefaultRegion,
		Transfers: 1,
	}
}

// Load reads and parses a TOML config file. Unknown keys are fatal —
// silently ignoring a typo in a credentials file leads to hard-to-debug
// auth failures.
func Load(path string) (*Settings, error) {
	s := Default()

	md, err := toml.DecodeFile(path, s)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in config file %s", undecoded[0].String(), path)
	}

	return s, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns
// default Settings.
func LoadOrDefault(path string) (*Settings, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return Load(path)
}

// ApplyEnv overlays environment variable values onto s. Only set variables
// override; empty env vars are ignored.
func ApplyEnv(s *Settings) {
	if v := os.Getenv(EnvClientID); v != "" {
		s.ClientID = v
	}

	if v := os.Getenv(EnvClientSecret); v != "" {
		s.ClientSecret = v
	}

	if v := os.Getenv(EnvTenantID); v != "" {
		s.TenantID = v
	}

	if v := os.Getenv(EnvRegion); v != "" {
		s.Region = v
	}
}

// Validate checks that every field required to authenticate and search is
// present. Format validation is left to the identity service.
func Validate(s *Settings) error {
	switch {
	case s.ClientID == "":
		return errors.New("config: client_id is required")
	case s.ClientSecret == "":
		return errors.New("config: client_secret is required")
	case s.TenantID == "":
		return errors.New("config: tenant_id is required")
	case s.Transfers < 1:
		return fmt.Errorf("config: transfers must be at least 1, got %d", s.Transfers)
	default:
		return nil
	}
}

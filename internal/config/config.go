package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for attend, stored in ~/.attend/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	API APIConfig `json:"api"`
	Log LogConfig `json:"log"`
}

// APIConfig holds the ESS service endpoint and auth settings.
type APIConfig struct {
	// BaseURL is the root of the ESS HTTP API.
	BaseURL string `json:"base_url"`
	// ClientID is the OAuth2 client id for the password-grant token endpoint.
	ClientID string `json:"client_id"`
	// Timezone is the IANA timezone used for calendar math (e.g. "Asia/Kolkata").
	// Empty = the system's local timezone.
	Timezone string `json:"timezone"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level"`
	// Format is "json" or "console".
	Format string `json:"format"`
}

const (
	// DefaultBaseURL points at the hosted ESS service.
	DefaultBaseURL = "https://ess.example.com/api/v1"
	// DefaultClientID is the public mobile/CLI client registration.
	DefaultClientID = "attend-cli"
	// DefaultLogLevel keeps routine fetch chatter out of normal runs.
	DefaultLogLevel = "warn"
	// DefaultLogFormat is human-oriented output for a CLI.
	DefaultLogFormat = "console"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:  DefaultBaseURL,
			ClientID: DefaultClientID,
			Timezone: "",
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// attend configuration – ~/.attend/config.json
//
// All settings are optional; the built-in defaults shown below are filled in
// for any field left empty. Edit this file to point attend at your
// organisation's ESS deployment.
{
  // ── ESS service ──────────────────────────────────────────────────────────
  "api": {
    // Root URL of the ESS HTTP API.
    "base_url": "https://ess.example.com/api/v1",

    // OAuth2 client id used by the password-grant login.
    "client_id": "attend-cli",

    // IANA timezone for calendar math, e.g. "Asia/Kolkata".
    // Leave empty to use the system timezone.
    "timezone": ""
  },

  // ── Logging ──────────────────────────────────────────────────────────────
  "log": {
    // One of: debug, info, warn, error.
    "level": "warn",

    // "console" for human-readable output, "json" for structured logs.
    "format": "console"
  }
}
`

// configFilePath returns the path to ~/.attend/config.json.
func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".attend", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.attend/config.json, creating it with annotated defaults on
// first run. Lines starting with // are treated as comments and stripped
// before JSON parsing.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.ClientID == "" {
		cfg.API.ClientID = DefaultClientID
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// Package config manages persistent CLI configuration stored in ~/.config/adsapi/config.yaml.
// It provides read/write/list operations and masks sensitive values in output.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aviadshiber/adsapi/pkg/client"
	"github.com/spf13/viper"
)

// Known configuration keys.
const (
	KeyClientID     = "client_id"
	KeyClientSecret = "client_secret"
	KeyRegion       = "region"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeySandbox      = "sandbox"
	KeyProfileID    = "profile_id"
)

// sensitiveKeys are masked in list output.
var sensitiveKeys = map[string]bool{
	KeyClientSecret: true,
	KeyAccessToken:  true,
	KeyRefreshToken: true,
}

// knownKeys defines the valid configuration keys and their descriptions.
var knownKeys = map[string]string{
	KeyClientID:     "Login with Amazon client ID (amzn1.application-oa2-client...)",
	KeyClientSecret: "Login with Amazon client secret",
	KeyRegion:       "API region (na, eu)",
	KeyAccessToken:  "Access token (Atza|...)",
	KeyRefreshToken: "Refresh token (Atzr|...)",
	KeySandbox:      "Use the sandbox API host (true, false)",
	KeyProfileID:    "Advertising profile ID sent as the API scope",
}

// Config wraps viper to manage adsapi configuration.
type Config struct {
	v        *viper.Viper
	filePath string
}

// DefaultPath returns ~/.config/adsapi/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, ".config", "adsapi", "config.yaml"), nil
}

// New creates a Config that reads from the default path.
func New() (*Config, error) {
	filePath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewAt(filePath)
}

// NewAt creates a Config backed by filePath, creating its directory if needed.
func NewAt(filePath string) (*Config, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetConfigType("yaml")

	// Read existing config; ignore file-not-found since we create on first write.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	return &Config{v: v, filePath: filePath}, nil
}

// Get returns the value for a configuration key.
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Set writes a configuration key-value pair and persists to disk.
func (c *Config) Set(key, value string) error {
	if _, ok := knownKeys[key]; !ok {
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(KnownKeyNames(), ", "))
	}

	switch key {
	case KeyRegion:
		if !client.ValidRegion(value) {
			return fmt.Errorf("invalid region %q; must be one of: %s", value, strings.Join(client.RegionCodes(), ", "))
		}
	case KeySandbox:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid sandbox value %q; must be true or false", value)
		}
		c.v.Set(key, b)
		return c.write()
	}

	c.v.Set(key, value)
	return c.write()
}

// Unset removes a key by writing an empty value.
func (c *Config) Unset(key string) error {
	if _, ok := knownKeys[key]; !ok {
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(KnownKeyNames(), ", "))
	}
	c.v.Set(key, "")
	return c.write()
}

// List returns all set configuration entries as key-value pairs.
// Sensitive values are masked.
func (c *Config) List() []Entry {
	var entries []Entry
	for _, key := range KnownKeyNames() {
		val := c.v.GetString(key)
		if val == "" {
			continue
		}
		if sensitiveKeys[key] {
			val = mask(val)
		}
		entries = append(entries, Entry{Key: key, Value: val, Description: knownKeys[key]})
	}
	return entries
}

// Entry is a single configuration key-value pair.
type Entry struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// KnownKeyNames returns known key names in display order.
func KnownKeyNames() []string {
	return []string{KeyClientID, KeyClientSecret, KeyRegion, KeyAccessToken, KeyRefreshToken, KeySandbox, KeyProfileID}
}

// FilePath returns the path to the configuration file.
func (c *Config) FilePath() string {
	return c.filePath
}

func (c *Config) write() error {
	return c.v.WriteConfigAs(c.filePath)
}

// mask shows the first 4 characters followed by "****".
func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}

// Package config provides configuration for the grafbak export run.
package config

import (
	"fmt"
	"net/url"
	"os"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// DefaultSaveFolder is the output directory used when --save_folder is not set.
const DefaultSaveFolder = "backup_dashboard_grafana"

// Config holds all settings for an export run.
type Config struct {
	GrafanaURL    string
	APIKey        Secret
	SaveFolder    string
	ExportSharing bool
	Force         bool
}

// Validate checks that the configuration is complete and well-formed. It is
// called before any network activity.
func (c *Config) Validate() error {
	if err := c.validateURL(); err != nil {
		return err
	}

	if err := c.validateCredentials(); err != nil {
		return err
	}

	if err := c.validateDestination(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateURL() error {
	if c.GrafanaURL == "" {
		return fmt.Errorf("grafana URL must be specified via --grafana_url, GRAFANA_URL, or the config file")
	}

	u, err := url.Parse(c.GrafanaURL)
	if err != nil {
		return fmt.Errorf("grafana URL is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("grafana URL scheme must be http:// or https://")
	}

	if u.Hostname() == "" {
		return fmt.Errorf("grafana URL must include a host")
	}

	return nil
}

func (c *Config) validateCredentials() error {
	if c.APIKey.Value() == "" {
		return fmt.Errorf("API key must be specified via --api_key, GRAFANA_API_KEY, or the config file")
	}

	return nil
}

func (c *Config) validateDestination() error {
	if c.SaveFolder == "" {
		return fmt.Errorf("save folder must not be empty")
	}

	return nil
}

// CheckDestination refuses a destination directory that already exists and is
// non-empty, unless force is set. The check is advisory: it races with
// concurrent writers and only guards against accidental overwrites.
func CheckDestination(dir string, force bool) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat save folder: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("save folder %q exists and is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read save folder: %w", err)
	}

	if len(entries) > 0 && !force {
		return fmt.Errorf("save folder %q is not empty; use --force to write anyway", dir)
	}

	return nil
}

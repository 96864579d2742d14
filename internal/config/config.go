package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the update settings of the application being kept up to date.
type Config struct {
	// AppVersion is the currently installed version as a dotted numeric string.
	AppVersion string `yaml:"app_version"`
	// AppcastURL is the URL of the release manifest.
	AppcastURL string `yaml:"appcast_url"`
	// ChannelID is the identifier of the subscribed release channel.
	ChannelID int `yaml:"channel_id"`
	// PublicKeyPath points to the trusted public key used to verify artifacts.
	PublicKeyPath string `yaml:"public_key_path"`
	// SignatureScheme selects the verification algorithm ("ed25519" or "dsa").
	// Empty means: pick the scheme matching the key type.
	SignatureScheme string `yaml:"signature_scheme"`
	// SkipFile is the path to the skipped-version preference file.
	SkipFile string `yaml:"skip_file"`
	// Timeout is the duration for network operations.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for update settings.
	DefaultConfigFilename = "upcast-settings.yaml"

	// DefaultSkipFilename is the default filename for the skipped-version preference.
	DefaultSkipFilename = "upcast-skip.yaml"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAppcastURLRequired is returned when the appcast URL is missing.
	errAppcastURLRequired = errors.New("appcast URL must be provided")
	// errAppVersionRequired is returned when the installed version is missing.
	errAppVersionRequired = errors.New("installed application version must be provided")
	// errNegativeChannel is returned when the channel identifier is negative.
	errNegativeChannel = errors.New("channel identifier must not be negative")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling in defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AppcastURL == "" {
		return errAppcastURLRequired
	}

	if _, err := url.ParseRequestURI(cfg.AppcastURL); err != nil {
		return fmt.Errorf("invalid appcast URL: %w", err)
	}

	if cfg.AppVersion == "" {
		return errAppVersionRequired
	}

	if cfg.ChannelID < 0 {
		return errNegativeChannel
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.SkipFile == "" {
		cfg.SkipFile = DefaultSkipFilename
	}

	return nil
}

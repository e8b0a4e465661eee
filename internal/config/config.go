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

// Config holds the release-hosting parameters shared by publish runs.
type Config struct {
	// RepositoryOwner is the owner of the repository hosting the releases.
	RepositoryOwner string `yaml:"repository_owner"`
	// RepositoryName is the repository hosting the releases.
	RepositoryName string `yaml:"repository_name"`
	// APIBaseURL is the REST API endpoint of the hosting platform.
	APIBaseURL string `yaml:"api_base_url"`
	// UploadsBaseURL is the asset upload endpoint of the hosting platform.
	UploadsBaseURL string `yaml:"uploads_base_url"`
	// ManifestFilename is the fixed name of the published manifest asset.
	ManifestFilename string `yaml:"manifest_filename"`
	// Timeout is the duration for HTTP calls to the hosting platform.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for publisher settings.
	DefaultConfigFilename = "manifest-publisher-settings.yaml"

	// DefaultManifestFilename is the fixed manifest name expected by updater clients.
	DefaultManifestFilename = "latest.json"

	// DefaultAPIBaseURL is the GitHub REST API endpoint.
	DefaultAPIBaseURL = "https://api.github.com"

	// DefaultUploadsBaseURL is the GitHub asset upload endpoint.
	DefaultUploadsBaseURL = "https://uploads.github.com"

	// DefaultTimeout is the default duration for hosting API calls.
	// Asset uploads dominate, so it is generous.
	DefaultTimeout = 2 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errOwnerRequired is returned when the repository owner is missing.
	errOwnerRequired = errors.New("repository owner must be provided")
	// errNameRequired is returned when the repository name is missing.
	errNameRequired = errors.New("repository name must be provided")
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

// Save writes settings to the provided path.
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

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.RepositoryOwner == "" {
		return errOwnerRequired
	}

	if cfg.RepositoryName == "" {
		return errNameRequired
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	if cfg.UploadsBaseURL == "" {
		cfg.UploadsBaseURL = DefaultUploadsBaseURL
	}

	if cfg.ManifestFilename == "" {
		cfg.ManifestFilename = DefaultManifestFilename
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.UploadsBaseURL); err != nil {
		return fmt.Errorf("invalid uploads base URL: %w", err)
	}

	return nil
}

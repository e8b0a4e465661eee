package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing owner.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Missing repository name.
	cfg = &Config{
		RepositoryOwner: "oshokin",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Bad API base URL.
	cfg = &Config{
		RepositoryOwner: "oshokin",
		RepositoryName:  "some-app",
		APIBaseURL:      "not a url",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay, defaults filled in.
	cfg = &Config{
		RepositoryOwner: "oshokin",
		RepositoryName:  "some-app",
	}

	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	require.Equal(t, DefaultUploadsBaseURL, cfg.UploadsBaseURL)
	require.Equal(t, DefaultManifestFilename, cfg.ManifestFilename)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		RepositoryOwner: "oshokin",
		RepositoryName:  "some-app",
		APIBaseURL:      "https://api.github.example.com",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.RepositoryOwner, loaded.RepositoryOwner)
	require.Equal(t, cfg.RepositoryName, loaded.RepositoryName)
	require.Equal(t, cfg.APIBaseURL, loaded.APIBaseURL)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestSaveNilConfig verifies that a nil configuration is rejected.
func TestSaveNilConfig(t *testing.T) {
	t.Parallel()

	require.Error(t, Save(filepath.Join(t.TempDir(), "settings.yaml"), nil))
}

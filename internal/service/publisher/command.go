package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oshokin/update-manifest-publisher/internal/config"
	"github.com/oshokin/update-manifest-publisher/internal/domain/manifest"
	"github.com/oshokin/update-manifest-publisher/internal/logger"
	"github.com/oshokin/update-manifest-publisher/internal/repository/release"
)

// Options contains inputs for the publisher entry point.
type Options struct {
	// ConfigPath is an optional path to persist hosting settings (defaults to settings YAML).
	ConfigPath string
	// RepositoryOwner and RepositoryName identify the repository hosting the release.
	RepositoryOwner string
	RepositoryName  string
	// ReleaseID is the hosting platform's identifier of the release being published.
	ReleaseID int64
	// TagName is the final release tag; empty while the release is still a draft.
	TagName string
	// Platform is the raw OS family of the build target (e.g. "macos", "windows").
	Platform string
	// Arch is the raw architecture tag of the build target (e.g. "x64", "arm64").
	Arch string
	// Version is the semantic version of the release being published.
	Version string
	// Notes holds the release notes embedded into the manifest.
	Notes string
	// ArtifactPaths are the files the build pipeline produced for this target,
	// installers and detached signatures alike.
	ArtifactPaths []string
	// PreferNsis prefers the NSIS installer signature over the MSI one.
	PreferNsis bool
	// UseNonZipped prefers plain installer signatures over zipped variants.
	UseNonZipped bool
	// KeepUniversal additionally keeps the darwin-universal key when fanning
	// out a macOS universal build.
	KeepUniversal bool
}

// tokenEnvVar supplies the hosting API token. Its absence is a fatal
// precondition checked before any work.
const tokenEnvVar = "GITHUB_TOKEN"

var (
	errTokenMissing     = errors.New(tokenEnvVar + " environment variable must be set")
	errVersionRequired  = errors.New("release version must be provided")
	errPlatformRequired = errors.New("target platform must be provided")
	errArchRequired     = errors.New("target architecture must be provided")
	errNoArtifacts      = errors.New("at least one artifact must be provided")
	errPublisherRunning = errors.New("another publish run is in progress")
)

// publisher holds the state of a single publish run.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type publisher struct {
	// cfg holds the hosting platform configuration.
	cfg *config.Config
	// repo is the release-hosting collaborator.
	repo release.Repository
	// opts are the validated run inputs.
	opts *Options
	// now produces the manifest publication timestamp.
	now func() time.Time
}

// Run executes one publish run.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "manifest-publisher")

	token := os.Getenv(tokenEnvVar)
	if token == "" {
		return errTokenMissing
	}

	if err := validateOptions(opts); err != nil {
		return err
	}

	cfg, err := loadOrSaveSettings(opts)
	if err != nil {
		return err
	}

	if IsPublisherRunningNow(ctx) {
		return errPublisherRunning
	}

	if err := createMarker(); err != nil {
		return fmt.Errorf("create publish marker: %w", err)
	}

	defer removeMarker(ctx)

	pub := &publisher{
		cfg:  cfg,
		repo: release.NewClient(cfg, token),
		opts: opts,
		now:  time.Now,
	}

	if err := pub.Run(ctx); err != nil {
		return fmt.Errorf("publisher failed: %w", err)
	}

	return nil
}

// loadOrSaveSettings persists repository coordinates supplied on the command
// line, or falls back to the settings saved by an earlier run.
func loadOrSaveSettings(opts *Options) (*config.Config, error) {
	if opts.RepositoryOwner == "" && opts.RepositoryName == "" {
		return config.Load(opts.ConfigPath)
	}

	cfg := &config.Config{
		RepositoryOwner: opts.RepositoryOwner,
		RepositoryName:  opts.RepositoryName,
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if err := config.Save(opts.ConfigPath, cfg); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	return cfg, nil
}

// validateOptions checks the run inputs the hosting settings do not cover.
func validateOptions(opts *Options) error {
	if opts.Version == "" {
		return errVersionRequired
	}

	if opts.Platform == "" {
		return errPlatformRequired
	}

	if opts.Arch == "" {
		return errArchRequired
	}

	if len(opts.ArtifactPaths) == 0 {
		return errNoArtifacts
	}

	return nil
}

// Run synthesizes the manifest and replaces the published asset.
func (p *publisher) Run(ctx context.Context) error {
	selected := manifest.SelectSignature(p.artifacts(), p.opts.PreferNsis, p.opts.UseNonZipped)
	if selected == nil {
		logger.Warn(ctx, "No artifact matches a known signature convention, skipping manifest publication")
		return nil
	}

	logger.InfoKV(ctx, "Selected signature artifact", "path", selected.Path)

	assets, err := p.repo.ListAssets(ctx, p.opts.ReleaseID)
	if err != nil {
		return fmt.Errorf("list release assets: %w", err)
	}

	assetURL := resolveAssetURL(*selected, assets, producedAssetNames(p.opts.ArtifactPaths), p.opts.TagName)
	if assetURL == "" {
		logger.WarnKV(ctx,
			"No uploaded asset matches the selected signature, skipping manifest publication",
			"signature", selected.Path)

		return nil
	}

	signature, err := os.ReadFile(filepath.Clean(selected.Path))
	if err != nil {
		return fmt.Errorf("read signature file: %w", err)
	}

	previous, previousAsset, err := p.fetchPreviousManifest(ctx, assets)
	if err != nil {
		return err
	}

	merged := manifest.Merge(previous, manifest.MergeOptions{
		Version: p.opts.Version,
		Notes:   p.opts.Notes,
		OS:      manifest.NormalizeOS(p.opts.Platform),
		Arch:    manifest.NormalizeArch(p.opts.Arch),
		Entry: manifest.Entry{
			// The signature travels verbatim; the updater client verifies it
			// against the exact bytes the build pipeline produced.
			Signature: string(signature),
			URL:       assetURL,
		},
		KeepUniversal: p.opts.KeepUniversal,
	}, p.now().UTC())

	contents, err := p.saveManifest(merged)
	if err != nil {
		return err
	}

	// The stale remote manifest goes away only after the new one is safely
	// computed and on disk.
	if previousAsset != nil {
		if err = p.repo.DeleteAsset(ctx, previousAsset.ID); err != nil {
			return fmt.Errorf("delete previous manifest asset: %w", err)
		}
	}

	uploaded, err := p.repo.UploadAsset(ctx, p.opts.ReleaseID, p.cfg.ManifestFilename, contents)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Published update manifest",
		"platform_key", manifest.NormalizePlatformKey(p.opts.Platform, p.opts.Arch),
		"version", merged.Version,
		"url", uploaded.BrowserDownloadURL)

	return nil
}

// artifacts converts the run's artifact paths into domain artifacts carrying
// the target's architecture tag.
func (p *publisher) artifacts() []manifest.Artifact {
	artifacts := make([]manifest.Artifact, 0, len(p.opts.ArtifactPaths))
	for _, path := range p.opts.ArtifactPaths {
		artifacts = append(artifacts, manifest.Artifact{
			Path: path,
			Arch: p.opts.Arch,
		})
	}

	return artifacts
}

// fetchPreviousManifest downloads and parses the manifest published by an
// earlier run, if one is attached to the release. Absence is not an error.
func (p *publisher) fetchPreviousManifest(
	ctx context.Context,
	assets []release.Asset,
) (*manifest.Manifest, *release.Asset, error) {
	var previousAsset *release.Asset

	for i := range assets {
		if assets[i].Name == p.cfg.ManifestFilename {
			previousAsset = &assets[i]
			break
		}
	}

	if previousAsset == nil {
		logger.Info(ctx, "No previously published manifest found, starting fresh")
		return nil, nil, nil
	}

	contents, err := p.repo.DownloadAsset(ctx, previousAsset.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("download previous manifest: %w", err)
	}

	var previous manifest.Manifest
	if err = json.Unmarshal(contents, &previous); err != nil {
		// Treating garbage as "no previous manifest" would silently drop
		// platforms accumulated by earlier runs.
		return nil, nil, fmt.Errorf("parse previous manifest: %w", err)
	}

	return &previous, previousAsset, nil
}

// saveManifest serializes the manifest and writes it to the fixed local
// filename before any remote mutation happens.
func (p *publisher) saveManifest(m *manifest.Manifest) ([]byte, error) {
	contents, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	if err = os.WriteFile(p.cfg.ManifestFilename, contents, config.DefaultFilePermissions); err != nil {
		return nil, fmt.Errorf("write manifest file: %w", err)
	}

	return contents, nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/update-manifest-publisher/internal/config"
	"github.com/oshokin/update-manifest-publisher/internal/logger"
	"github.com/oshokin/update-manifest-publisher/internal/service/publisher"
	"github.com/oshokin/update-manifest-publisher/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// platform and arch describe the build target being published.
	platform string
	arch     string
	// appVersion and notes fill the manifest's identity fields.
	appVersion string
	notes      string
	// artifactPaths are the files produced by the build pipeline for this target.
	artifactPaths []string
	// Packaging flags controlling signature selection and universal handling.
	preferNsis    bool
	useNonZipped  bool
	keepUniversal bool
	// logLevel controls logging verbosity.
	logLevel string

	// repository is an optional "owner/name" pair; when omitted, settings
	// saved by an earlier run are used.
	repository string

	// rootCmd represents the base command for publishing the update manifest.
	rootCmd = &cobra.Command{
		Use:   "manifest-publisher [release-id] [tag]",
		Short: "Synthesize and publish the auto-update manifest for a release",
		Long: "Selects the signature artifact of the current build target, resolves its " +
			"installer's download URL among the release assets, merges the platform entry " +
			"into the previously published manifest and replaces the manifest asset.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var (
				owner, repo string
				err         error
			)

			if repository != "" {
				if owner, repo, err = splitRepository(repository); err != nil {
					return err
				}
			}

			releaseID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid release id %q: %w", args[0], err)
			}

			var tagName string
			if len(args) > 1 {
				tagName = args[1]
			}

			options := &publisher.Options{
				ConfigPath:      configPath,
				RepositoryOwner: owner,
				RepositoryName:  repo,
				ReleaseID:       releaseID,
				TagName:         tagName,
				Platform:        platform,
				Arch:            arch,
				Version:         appVersion,
				Notes:           notes,
				ArtifactPaths:   artifactPaths,
				PreferNsis:      preferNsis,
				UseNonZipped:    useNonZipped,
				KeepUniversal:   keepUniversal,
			}

			return publisher.Run(ctx, options)
		},
	}
)

// Execute runs the manifest-publisher CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// splitRepository parses an "owner/name" argument.
func splitRepository(arg string) (string, string, error) {
	owner, repo, ok := strings.Cut(arg, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", arg)
	}

	return owner, repo, nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&repository, "repository", "r", "", "repository hosting the releases as owner/name (persisted to settings)")
	rootCmd.Flags().StringVar(&platform, "platform", "", "target OS family (e.g. macos, windows, linux)")
	rootCmd.Flags().StringVar(&arch, "arch", "", "target architecture tag from the build matrix (e.g. x64, arm64)")
	rootCmd.Flags().StringVar(&appVersion, "app-version", "", "semantic version of the release")
	rootCmd.Flags().StringVar(&notes, "notes", "", "release notes embedded into the manifest")
	rootCmd.Flags().StringArrayVar(&artifactPaths, "artifact", nil, "artifact produced by the build pipeline (repeatable)")
	rootCmd.Flags().BoolVar(&preferNsis, "prefer-nsis", false, "prefer the NSIS installer signature over the MSI one")
	rootCmd.Flags().BoolVar(&useNonZipped, "use-non-zipped", false, "prefer plain installer signatures over zipped variants")
	rootCmd.Flags().BoolVar(&keepUniversal, "keep-universal", false, "also keep the darwin-universal key for universal macOS builds")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error, fatal)")
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oshokin/release-builder/internal/config"
	"github.com/oshokin/release-builder/internal/domain/release"
	"github.com/oshokin/release-builder/internal/logger"
	"github.com/oshokin/release-builder/internal/service/packager"
	"github.com/oshokin/release-builder/internal/version"
)

var (
	// projectRoot is the extension folder to package.
	projectRoot string
	// configPath is the settings file, relative to the project root unless absolute.
	configPath string
	// bumpKind is the optional version bump applied before building.
	bumpKind string
	// noOpen disables opening the output folder.
	noOpen bool
	// logLevel is the minimum level of log messages.
	logLevel string
	// forceInit allows `init` to overwrite an existing settings file.
	forceInit bool

	// rootCmd builds the store and full packages of an extension.
	rootCmd = &cobra.Command{
		Use:   "release-builder",
		Short: "Build release archives of a browser extension",
		Long: `Builds two zip archives from the extension in the project folder:

  {slug}-v{version}-store.zip  minimal package for store submission
  {slug}-v{version}.zip        the same files plus README, PRIVACY, LICENSE and CHANGELOG

Name, version and description are read from manifest.json. With --bump the
version is incremented and saved before anything is packaged.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return errors.Newf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &packager.Options{
				ProjectRoot: projectRoot,
				ConfigPath:  configPath,
				Bump:        bumpKind,
				NoOpen:      noOpen,
				Stdout:      cmd.OutOrStdout(),
			}

			_, err := packager.Run(ctx, options)

			return err
		},
	}

	// initCmd writes the default settings file.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the default packaging rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			path := configPath
			if !filepath.IsAbs(path) {
				path = filepath.Join(projectRoot, path)
			}

			if _, err := os.Stat(path); err == nil && !forceInit {
				return errors.WithHint(
					errors.Newf("%s already exists", path),
					"Pass --force to overwrite it.",
				)
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", path)

			return err
		},
	}
)

// Execute runs the release-builder CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError writes err and any attached hints to stderr.
func printError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "\n  %s %v\n", color.RedString("Error:"), err)

	if hints := errors.FlattenHints(err); hints != "" {
		for _, line := range strings.Split(hints, "\n") {
			_, _ = fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
	}

	_, _ = fmt.Fprintln(os.Stderr)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.SilenceErrors = true

	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "project", "p", ".", "path to the extension project root")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to the settings file, relative to the project root")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	rootCmd.Flags().StringVarP(&bumpKind, "bump", "b", "",
		"bump the version before building: "+strings.Join(release.BumpKinds(), ", "))
	rootCmd.Flags().BoolVar(&noOpen, "no-open", false, "do not open the output folder after the build")

	_ = rootCmd.RegisterFlagCompletionFunc("bump",
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return release.BumpKinds(), cobra.ShellCompDirectiveNoFileComp
		})

	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing settings file")
	rootCmd.AddCommand(initCmd)
}

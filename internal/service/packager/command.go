package packager

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/oshokin/release-builder/internal/config"
	"github.com/oshokin/release-builder/internal/domain/release"
	"github.com/oshokin/release-builder/internal/logger"
	repository "github.com/oshokin/release-builder/internal/repository/manifest"
)

// Options contains inputs for the release builder entry point.
type Options struct {
	// ProjectRoot is the extension folder; the working directory when empty.
	ProjectRoot string
	// ConfigPath is the settings file, resolved against ProjectRoot when relative.
	ConfigPath string
	// Bump is an optional version bump kind applied before building.
	Bump string
	// NoOpen disables opening the output folder after the build.
	NoOpen bool
	// Stdout receives the human-readable summary; os.Stdout when nil.
	Stdout io.Writer
	// Opener shows the output folder; OpenFolder when nil.
	Opener FolderOpener
}

// Run executes the release workflow: optional bump, both builds, summary.
func Run(ctx context.Context, opts *Options) (*release.Summary, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "release-builder")

	b, err := newBuilder(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "initialize release builder")
	}

	summary, err := b.Run(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "release builder failed")
	}

	logger.InfoKV(ctx, "Release builder completed successfully", "version", summary.Version)

	return summary, nil
}

// builder holds everything a single run needs.
// It is unexported, callers should use Run.
type builder struct {
	// opts are the caller's inputs.
	opts *Options
	// bump is the parsed bump kind, empty when no bump was requested.
	bump release.BumpKind
	// manifest is the loaded project manifest.
	manifest *Manifest
	// assembler builds the archives.
	assembler *Assembler
	// reporter prints results.
	reporter *Reporter
}

// newBuilder resolves the project, loads settings and the manifest.
func newBuilder(ctx context.Context, opts *Options) (*builder, error) {
	if opts == nil {
		opts = new(Options)
	}

	var (
		bump release.BumpKind
		err  error
	)

	if opts.Bump != "" {
		if bump, err = release.ParseBumpKind(opts.Bump); err != nil {
			return nil, err
		}
	}

	root := opts.ProjectRoot
	if root == "" {
		root = "."
	}

	if root, err = filepath.Abs(root); err != nil {
		return nil, errors.Wrap(err, "resolve project root")
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigFilename
	}

	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(root, configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "load settings")
	}

	ctx = logger.WithKV(ctx, "project", root)
	logger.DebugKV(ctx, "Settings loaded", "path", configPath, "manifest", cfg.Manifest, "output", cfg.OutputFolder)

	manifestRepo := repository.NewFileRepository(filepath.Join(root, filepath.FromSlash(cfg.Manifest)))

	manifest, err := LoadManifest(ctx, manifestRepo)
	if err != nil {
		return nil, err
	}

	assembler, err := NewAssembler(manifest, root,
		WithRules(cfg.Rules()),
		WithSpecs(cfg.Specs()),
		WithOutputFolder(cfg.OutputFolder),
	)
	if err != nil {
		return nil, err
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	return &builder{
		opts:      opts,
		bump:      bump,
		manifest:  manifest,
		assembler: assembler,
		reporter:  NewReporter(out),
	}, nil
}

// Run bumps the version if requested, builds both packages and reports them.
// The bump is persisted before the first archive is named, so both packages
// carry the new version.
func (b *builder) Run(ctx context.Context) (summary *release.Summary, err error) {
	marker, err := acquireMarker(ctx, b.assembler.OutputDir())
	if err != nil {
		return nil, err
	}

	defer func() {
		if releaseErr := marker.release(); releaseErr != nil {
			logger.WarnKV(ctx, "Unable to remove the run marker", "error", releaseErr)
		}
	}()

	if b.bump != "" {
		oldVersion, newVersion, bumpErr := b.manifest.Bump(ctx, b.bump)
		if bumpErr != nil {
			return nil, errors.Wrap(bumpErr, "bump version")
		}

		b.reporter.Bumped(oldVersion, newVersion)
	}

	logger.InfoKV(ctx, "Building packages", "name", b.manifest.Name(), "version", b.manifest.Version())

	summary, err = b.assembler.BuildAll(ctx)
	if err != nil {
		return nil, err
	}

	if err = b.reporter.Summary(summary); err != nil {
		return nil, errors.Wrap(err, "print summary")
	}

	b.openOutput(ctx, summary.OutputDir)

	return summary, nil
}

// openOutput shows the output folder unless disabled. Failures are only logged.
func (b *builder) openOutput(ctx context.Context, dir string) {
	if b.opts.NoOpen {
		return
	}

	opener := b.opts.Opener
	if opener == nil {
		opener = OpenFolder
	}

	if err := opener(ctx, dir); err != nil {
		logger.WarnKV(ctx, "Unable to open the output folder", "path", dir, "error", err)
	}
}

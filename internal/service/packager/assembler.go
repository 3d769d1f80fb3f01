package packager

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/oshokin/release-builder/internal/domain/release"
	"github.com/oshokin/release-builder/internal/logger"
)

// outputDirMode is used when the output folder has to be created.
const outputDirMode fs.FileMode = 0o755

// Assembler builds the package archives of one project.
type Assembler struct {
	// manifest supplies the slug and version used in archive names.
	manifest *Manifest
	// root is the absolute project root.
	root string
	// outputDir is the absolute folder archives are written to.
	outputDir string
	// rules keep paths out of every archive.
	rules release.ExclusionRules
	// specs are the package variants.
	specs release.Specs
	// observer is told about every path visited while walking a directory entry.
	observer func(rel string)
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithRules replaces the default exclusion rules.
func WithRules(rules release.ExclusionRules) AssemblerOption {
	return func(a *Assembler) {
		a.rules = rules
	}
}

// WithSpecs replaces the default package variants.
func WithSpecs(specs release.Specs) AssemblerOption {
	return func(a *Assembler) {
		a.specs = specs
	}
}

// WithOutputFolder sets the output folder relative to the project root.
func WithOutputFolder(folder string) AssemblerOption {
	return func(a *Assembler) {
		if folder != "" {
			a.outputDir = filepath.Join(a.root, filepath.FromSlash(folder))
		}
	}
}

// WithWalkObserver registers fn to be called with the root-relative path of
// every file and directory visited during a directory walk.
func WithWalkObserver(fn func(rel string)) AssemblerOption {
	return func(a *Assembler) {
		a.observer = fn
	}
}

// NewAssembler creates an assembler for the project at root.
func NewAssembler(manifest *Manifest, root string, opts ...AssemblerOption) (*Assembler, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "resolve project root")
	}

	a := &Assembler{
		manifest:  manifest,
		root:      absRoot,
		outputDir: filepath.Join(absRoot, release.DefaultOutputFolder),
		rules:     release.ParseRules(release.DefaultExcludePatterns()),
		specs:     release.DefaultSpecs(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// OutputDir returns the absolute output folder.
func (a *Assembler) OutputDir() string {
	return a.outputDir
}

// ShouldExclude reports whether the root-relative path is kept out of archives.
func (a *Assembler) ShouldExclude(rel string) bool {
	return a.rules.Excluded(rel)
}

// BuildStore builds the minimal store package.
func (a *Assembler) BuildStore(ctx context.Context) (string, error) {
	return a.BuildOne(ctx, release.PackageSpec{
		Entries: a.existing(a.specs.Store.Entries),
		Suffix:  a.specs.Store.Suffix,
	})
}

// BuildFull builds the store entries plus whatever documentation exists.
func (a *Assembler) BuildFull(ctx context.Context) (string, error) {
	return a.BuildOne(ctx, release.Full(a.existing(a.specs.Store.Entries), a.existing(a.specs.Docs)))
}

// BuildAll builds both packages and returns what the CLI shows to the user.
func (a *Assembler) BuildAll(ctx context.Context) (*release.Summary, error) {
	if err := a.ensureOutputDir(); err != nil {
		return nil, err
	}

	storePath, err := a.BuildStore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "build store package")
	}

	fullPath, err := a.BuildFull(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "build full package")
	}

	return &release.Summary{
		Name:        a.manifest.Name(),
		Slug:        a.manifest.Slug(),
		Version:     a.manifest.Version(),
		Description: a.manifest.Description(),
		StorePath:   storePath,
		GitHubPath:  fullPath,
		OutputDir:   a.outputDir,
	}, nil
}

// BuildOne writes the archive for spec and returns its absolute path.
// Entries missing from the project are skipped. An existing archive with the
// same name is removed first; if that fails nothing is written.
func (a *Assembler) BuildOne(ctx context.Context, spec release.PackageSpec) (string, error) {
	entries := a.existing(spec.Entries)
	target := filepath.Join(a.outputDir, release.ArchiveName(a.manifest.Slug(), a.manifest.Version(), spec.Suffix))

	ctx = logger.WithKV(ctx, "archive", filepath.Base(target))

	if err := a.ensureOutputDir(); err != nil {
		return "", err
	}

	if err := removeExisting(target); err != nil {
		return "", err
	}

	writer := newArchiveWriter()

	for _, entry := range entries {
		if err := a.addEntry(ctx, writer, filepath.Join(a.root, filepath.FromSlash(entry)), entry); err != nil {
			return "", errors.Wrapf(err, "add entry %s", entry)
		}
	}

	if err := writer.writeTo(ctx, target); err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Package built", "path", target, "files", len(writer.files))

	return target, nil
}

// addEntry queues source under the archive name. A file is queued as is; a
// directory is walked with excluded subtrees pruned before descent, and each
// remaining file lands under name/<path relative to source>.
func (a *Assembler) addEntry(ctx context.Context, writer *archiveWriter, source, name string) error {
	name = path.Clean(filepath.ToSlash(name))

	if a.ShouldExclude(name) {
		logger.DebugKV(ctx, "Skipping excluded entry", "entry", name)
		return nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		if info.Mode().IsRegular() {
			writer.add(name, source)
		}

		return nil
	}

	return filepath.WalkDir(source, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if current == source {
			return nil
		}

		relToSource, err := filepath.Rel(source, current)
		if err != nil {
			return err
		}

		archiveName := path.Join(name, filepath.ToSlash(relToSource))
		if a.observer != nil {
			a.observer(archiveName)
		}

		if a.ShouldExclude(archiveName) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !d.Type().IsRegular() {
			// Symlinks to files are followed, anything else is skipped.
			target, statErr := os.Stat(current)
			if statErr != nil || !target.Mode().IsRegular() {
				logger.DebugKV(ctx, "Skipping non-regular file", "path", archiveName)
				return nil //nolint:nilerr // Broken links are skipped.
			}
		}

		writer.add(archiveName, current)

		return nil
	})
}

// existing keeps the entries present under the project root, in order.
func (a *Assembler) existing(entries []string) []string {
	result := make([]string, 0, len(entries))

	for _, entry := range entries {
		if _, err := os.Stat(filepath.Join(a.root, filepath.FromSlash(entry))); err == nil {
			result = append(result, entry)
		}
	}

	return result
}

func (a *Assembler) ensureOutputDir() error {
	if err := os.MkdirAll(a.outputDir, outputDirMode); err != nil {
		return errors.Wrap(err, "create output folder")
	}

	return nil
}

// removeExisting deletes a previous archive at target.
func removeExisting(target string) error {
	if _, err := os.Lstat(target); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return errors.Wrapf(err, "stat %s", target)
	}

	if err := os.Remove(target); err != nil {
		return errors.WithHint(
			errors.Wrapf(release.ErrArchiveOverwriteLocked, "cannot overwrite %s: %v", filepath.Base(target), err),
			"The file may be open in another program. Close it and try again.",
		)
	}

	return nil
}

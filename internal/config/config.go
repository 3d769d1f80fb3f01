package config

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/release-builder/internal/domain/release"
)

// Config holds the packaging settings of a project.
type Config struct {
	// Manifest is the manifest path relative to the project root.
	Manifest string `yaml:"manifest"`
	// OutputFolder is where archives are written, relative to the project root.
	OutputFolder string `yaml:"output_folder"`
	// StoreSuffix is appended to the store package name before the extension.
	StoreSuffix string `yaml:"store_suffix"`
	// StoreFiles are the entries of the store package.
	StoreFiles []string `yaml:"store_files"`
	// DocsFiles are added on top of StoreFiles in the full package.
	DocsFiles []string `yaml:"docs_files"`
	// Exclude lists patterns that never end up in an archive.
	Exclude []string `yaml:"exclude"`
}

const (
	// DefaultConfigFilename is the settings file looked up in the project root.
	DefaultConfigFilename = "release-builder.yaml"

	// DefaultFilePermissions is the mode of a saved settings file.
	DefaultFilePermissions = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errManifestRequired is returned when the manifest path is empty.
	errManifestRequired = errors.New("manifest path must be provided")
	// errStoreSuffixRequired is returned when the store package would share the full package name.
	errStoreSuffixRequired = errors.New("store suffix must not be empty")
	// errNotLocal is returned for paths that are absolute or leave the project root.
	errNotLocal = errors.New("path must be relative to the project root")
	// errOutputOverlapsEntry is returned when archives would be written inside a packaged entry.
	errOutputOverlapsEntry = errors.New("output folder overlaps a packaged entry")
	// errEmptyPattern is returned for blank exclusion patterns.
	errEmptyPattern = errors.New("exclude pattern must not be empty")
)

// Default returns the settings used when a project has no settings file.
func Default() *Config {
	return &Config{
		Manifest:     release.DefaultManifestFilename,
		OutputFolder: release.DefaultOutputFolder,
		StoreSuffix:  release.DefaultStoreSuffix,
		StoreFiles:   release.DefaultStoreEntries(),
		DocsFiles:    release.DefaultDocEntries(),
		Exclude:      release.DefaultExcludePatterns(),
	}
}

// Load reads settings from path. Fields missing from the file keep their
// defaults, and a missing file yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return nil, errors.Wrap(err, "read settings")
	}

	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal settings")
	}

	if err = Validate(cfg); err != nil {
		return nil, errors.WithHintf(err, "Fix %s or delete it to use the defaults.", path)
	}

	return cfg, nil
}

// Save writes settings to path.
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
		return errors.Wrap(err, "marshal settings")
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "write settings")
	}

	return nil
}

// Validate checks that every path stays inside the project root and that the
// two package names cannot collide.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(cfg.Manifest) == "" {
		return errManifestRequired
	}

	if err := checkLocal("manifest", cfg.Manifest); err != nil {
		return err
	}

	if cfg.OutputFolder == "" {
		cfg.OutputFolder = release.DefaultOutputFolder
	}

	if err := checkLocal("output_folder", cfg.OutputFolder); err != nil {
		return err
	}

	if cfg.StoreSuffix == "" {
		return errStoreSuffixRequired
	}

	if strings.ContainsAny(cfg.StoreSuffix, `/\`) {
		return errors.Newf("store suffix %q must not contain path separators", cfg.StoreSuffix)
	}

	for _, entry := range append(append([]string(nil), cfg.StoreFiles...), cfg.DocsFiles...) {
		if err := checkLocal("entry", entry); err != nil {
			return err
		}

		if overlaps(cfg.OutputFolder, entry) {
			return errors.WithHint(
				errors.Wrapf(errOutputOverlapsEntry, "output_folder %q and entry %q", cfg.OutputFolder, entry),
				"Build files would end up in the archives; pick an output folder outside the packaged entries.",
			)
		}
	}

	for _, pattern := range cfg.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return errEmptyPattern
		}
	}

	return nil
}

// Specs returns the package variants described by the settings.
func (c *Config) Specs() release.Specs {
	return release.Specs{
		Store: release.PackageSpec{
			Entries: append([]string(nil), c.StoreFiles...),
			Suffix:  c.StoreSuffix,
		},
		Docs: append([]string(nil), c.DocsFiles...),
	}
}

// Rules returns the compiled exclusion rules.
func (c *Config) Rules() release.ExclusionRules {
	return release.ParseRules(c.Exclude)
}

func checkLocal(field, path string) error {
	if path == "" || !filepath.IsLocal(filepath.FromSlash(path)) {
		return errors.Wrapf(errNotLocal, "%s %q", field, path)
	}

	return nil
}

// overlaps reports whether one of two root-relative paths contains the other.
func overlaps(a, b string) bool {
	a = path.Clean(filepath.ToSlash(a))
	b = path.Clean(filepath.ToSlash(b))

	return a == b || a == "." || b == "." ||
		strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/release-builder/internal/domain/release"
)

// TestValidate checks required fields and path validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))
	require.NoError(t, Validate(Default()))

	// Missing manifest.
	cfg := Default()
	cfg.Manifest = " "
	require.ErrorIs(t, Validate(cfg), errManifestRequired)

	// Manifest outside the project.
	cfg = Default()
	cfg.Manifest = "../manifest.json"
	require.ErrorIs(t, Validate(cfg), errNotLocal)

	// Absolute output folder.
	cfg = Default()
	cfg.OutputFolder = "/tmp/releases"
	require.ErrorIs(t, Validate(cfg), errNotLocal)

	// Empty output folder falls back to the default.
	cfg = Default()
	cfg.OutputFolder = ""
	require.NoError(t, Validate(cfg))
	require.Equal(t, release.DefaultOutputFolder, cfg.OutputFolder)

	// Store and full packages would share a name.
	cfg = Default()
	cfg.StoreSuffix = ""
	require.ErrorIs(t, Validate(cfg), errStoreSuffixRequired)

	cfg = Default()
	cfg.StoreSuffix = "-store/x"
	require.Error(t, Validate(cfg))

	// Escaping entry.
	cfg = Default()
	cfg.DocsFiles = append(cfg.DocsFiles, "../../etc/passwd")
	require.ErrorIs(t, Validate(cfg), errNotLocal)

	// Output folder inside, equal to or around a packaged entry.
	for _, tc := range []struct {
		output string
		store  []string
		docs   []string
	}{
		{output: "src/out", store: []string{"manifest.json", "src"}},
		{output: "src", store: []string{"src"}},
		{output: "./icons/../src/build", store: []string{"src/"}},
		{output: "dist", store: []string{"manifest.json"}, docs: []string{"dist/README.md"}},
		{output: ".", store: []string{"manifest.json"}},
	} {
		cfg = Default()
		cfg.OutputFolder = tc.output
		cfg.StoreFiles = tc.store
		cfg.DocsFiles = tc.docs
		require.ErrorIs(t, Validate(cfg), errOutputOverlapsEntry, tc.output)
	}

	// A sibling with a shared prefix is fine.
	cfg = Default()
	cfg.OutputFolder = "src-releases"
	require.NoError(t, Validate(cfg))

	// Blank pattern.
	cfg = Default()
	cfg.Exclude = append(cfg.Exclude, "  ")
	require.ErrorIs(t, Validate(cfg), errEmptyPattern)
}

// TestLoad_MissingFileUsesDefaults ensures a project without settings still builds.
func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), DefaultConfigFilename))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestLoad_PartialFileKeepsDefaults verifies omitted fields keep their default values.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte("output_folder: dist\nexclude:\n  - \"*.map\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dist", cfg.OutputFolder)
	require.Equal(t, []string{"*.map"}, cfg.Exclude)
	require.Equal(t, release.DefaultStoreEntries(), cfg.StoreFiles)
	require.Equal(t, release.DefaultStoreSuffix, cfg.StoreSuffix)

	require.True(t, cfg.Rules().Excluded("src/app.js.map"))
	require.False(t, cfg.Rules().Excluded("node_modules"))
}

// TestLoad_Invalid reports malformed and invalid settings.
func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	malformed := filepath.Join(dir, "malformed.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("exclude: [unterminated"), 0o600))

	_, err := Load(malformed)
	require.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("manifest: /etc/manifest.json\n"), 0o600))

	_, err = Load(invalid)
	require.ErrorIs(t, err, errNotLocal)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)

	cfg := Default()
	cfg.StoreSuffix = "-webstore"
	cfg.DocsFiles = []string{"README.md"}

	require.NoError(t, Save(path, cfg))
	require.Error(t, Save(path, nil))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	specs := loaded.Specs()
	require.Equal(t, "-webstore", specs.Store.Suffix)
	require.Equal(t, []string{"README.md"}, specs.Docs)
}

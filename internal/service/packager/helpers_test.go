package packager

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	repository "github.com/oshokin/release-builder/internal/repository/manifest"
)

const testManifest = `{
    "manifest_version": 3,
    "name": "Tab Saver: Pro!",
    "version": "1.2.3",
    "description": "Saves every open tab and restores it later, even after a crash",
    "permissions": ["tabs", "storage"]
}`

// projectFiles is the layout of a typical extension checkout.
func projectFiles() map[string]string {
	return map[string]string{
		"manifest.json":                          testManifest,
		"icons/icon-16.png":                      "png-16",
		"src/background.js":                      "console.log('bg')",
		"src/lib/util.js":                        "export const x = 1",
		"src/.DS_Store":                          "junk",
		"src/old.zip":                            "zip",
		"src/node_modules/left-pad/index.js":     "module.exports = {}",
		"src/node_modules/deep/a/b/sentinel.bin": "sentinel",
		"README.md":                              "# Tab Saver",
		"PRIVACY.md":                             "No data leaves the browser.",
		"LICENSE":                                "MIT",
		"CHANGELOG.md":                           "## 1.2.3",
		"docs/guide.md":                          "guide",
		"scripts/build.py":                       "print('hi')",
		"node_modules/top/index.js":              "module.exports = {}",
	}
}

// newProject writes projectFiles into a temp dir and returns its path.
func newProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range projectFiles() {
		writeFile(t, root, rel, content)
	}

	return root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newTestAssembler loads the project manifest and creates an assembler for root.
func newTestAssembler(t *testing.T, root string, opts ...AssemblerOption) *Assembler {
	t.Helper()

	manifest, err := LoadManifest(context.Background(), repository.NewFileRepository(filepath.Join(root, "manifest.json")))
	require.NoError(t, err)

	assembler, err := NewAssembler(manifest, root, opts...)
	require.NoError(t, err)

	return assembler
}

// archiveEntries returns the entry names of a zip archive in stored order.
func archiveEntries(t *testing.T, path string) []string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, reader.Close())
	}()

	names := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		names = append(names, file.Name)
	}

	return names
}

// archiveFileContent returns the content of one archive entry.
func archiveFileContent(t *testing.T, path, name string) string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, reader.Close())
	}()

	entry, err := reader.Open(name)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, entry.Close())
	}()

	content, err := io.ReadAll(entry)
	require.NoError(t, err)

	return string(content)
}

package packager

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/release-builder/internal/domain/release"
)

// TestReporter_Summary checks the printed block for names, sizes and the truncated description.
func TestReporter_Summary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storePath := filepath.Join(dir, "tab-saver-v1.0.0-store.zip")
	fullPath := filepath.Join(dir, "tab-saver-v1.0.0.zip")

	require.NoError(t, os.WriteFile(storePath, bytes.Repeat([]byte("a"), 512), 0o600))
	require.NoError(t, os.WriteFile(fullPath, bytes.Repeat([]byte("a"), 2048), 0o600))

	var out bytes.Buffer

	err := NewReporter(&out).Summary(&release.Summary{
		Name:        "Tab Saver",
		Slug:        "tab-saver",
		Version:     "1.0.0",
		Description: strings.Repeat("x", 50),
		StorePath:   storePath,
		GitHubPath:  fullPath,
		OutputDir:   dir,
	})
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "Tab Saver - Release Builder")
	require.Contains(t, text, "1.0.0")
	require.Contains(t, text, strings.Repeat("x", 40)+"...")
	require.NotContains(t, text, strings.Repeat("x", 41))
	require.Contains(t, text, "tab-saver-v1.0.0-store.zip")
	require.Contains(t, text, "512 B")
	require.Contains(t, text, "tab-saver-v1.0.0.zip")
	require.Contains(t, text, "2.0 KB")
	require.Contains(t, text, "Output: "+dir)
}

// TestReporter_SummaryMissingArchive reports an archive that vanished before printing.
func TestReporter_SummaryMissingArchive(t *testing.T) {
	t.Parallel()

	err := NewReporter(new(bytes.Buffer)).Summary(&release.Summary{
		StorePath: filepath.Join(t.TempDir(), "missing.zip"),
	})
	require.Error(t, err)

	require.NoError(t, NewReporter(new(bytes.Buffer)).Summary(nil))
}

// TestReporter_Bumped prints both versions.
func TestReporter_Bumped(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	NewReporter(&out).Bumped("1.2.3", "1.3.0")
	require.Contains(t, out.String(), "Version bumped: 1.2.3 -> ")
	require.Contains(t, out.String(), "1.3.0")
}

// TestTruncate keeps short strings and cuts long ones on rune boundaries.
func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "ééé...", truncate("éééé", 3))
	require.Empty(t, truncate("", 3))
}

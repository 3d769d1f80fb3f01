package packager

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/oshokin/release-builder/internal/domain/release"
)

const (
	// reportWidth is the width of the banner lines.
	reportWidth = 55
	// descriptionLimit is the number of description runes shown in the summary.
	descriptionLimit = 40
)

// Reporter prints build results for a human.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Bumped prints the version change.
func (r *Reporter) Bumped(oldVersion, newVersion string) {
	fmt.Fprintf(r.out, "Version bumped: %s -> %s\n\n", oldVersion, color.YellowString(newVersion))
}

// Summary prints the build summary including the size of both archives.
func (r *Reporter) Summary(summary *release.Summary) error {
	if summary == nil {
		return nil
	}

	storeSize, err := fileSize(summary.StorePath)
	if err != nil {
		return err
	}

	fullSize, err := fileSize(summary.GitHubPath)
	if err != nil {
		return err
	}

	rule := strings.Repeat("=", reportWidth)
	bold := color.New(color.Bold)

	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "  %s\n", bold.Sprintf("%s - Release Builder", summary.Name))
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "\n  Version:     %s\n", color.GreenString(summary.Version))
	fmt.Fprintf(r.out, "  Description: %s\n", truncate(summary.Description, descriptionLimit))
	fmt.Fprintln(r.out, "\n  Packages:")
	fmt.Fprintf(r.out, "    Chrome Store: %s\n", color.CyanString(filepath.Base(summary.StorePath)))
	fmt.Fprintf(r.out, "                  %s\n", release.FormatSize(storeSize))
	fmt.Fprintf(r.out, "    GitHub:       %s\n", color.CyanString(filepath.Base(summary.GitHubPath)))
	fmt.Fprintf(r.out, "                  %s\n", release.FormatSize(fullSize))
	fmt.Fprintf(r.out, "\n  Output: %s\n", summary.OutputDir)
	fmt.Fprintln(r.out, rule)

	return nil
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", path)
	}

	return info.Size(), nil
}

// truncate shortens s to limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + "..."
}

package packager

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-ps"

	"github.com/oshokin/release-builder/internal/domain/release"
	"github.com/oshokin/release-builder/internal/logger"
)

const (
	// MarkerFilename marks that a build is running in the output folder.
	MarkerFilename = ".release-builder.lock"

	// markerLifetime is the age after which an unreadable marker is ignored.
	markerLifetime = 10 * time.Minute

	// markerFileMode restricts the marker to its owner.
	markerFileMode fs.FileMode = 0o600
)

// runMarker guards an output folder against concurrent runs.
type runMarker struct {
	path string
}

// acquireMarker creates the run marker in dir, recording the current PID.
// A leftover marker whose process is gone is removed and replaced.
func acquireMarker(ctx context.Context, dir string) (*runMarker, error) {
	if err := os.MkdirAll(dir, outputDirMode); err != nil {
		return nil, errors.Wrap(err, "create output folder")
	}

	markerPath := filepath.Join(dir, MarkerFilename)

	logger.DebugKV(ctx, "Acquiring run marker", "path", markerPath)

	// Second attempt only after a stale marker was cleaned up.
	for range 2 {
		file, err := os.OpenFile(markerPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, markerFileMode)
		if err == nil {
			_, writeErr := file.WriteString(strconv.Itoa(os.Getpid()))
			closeErr := file.Close()

			if err = errors.CombineErrors(writeErr, closeErr); err != nil {
				_ = os.Remove(markerPath)

				return nil, errors.Wrap(err, "write run marker")
			}

			return &runMarker{path: markerPath}, nil
		}

		if !errors.Is(err, fs.ErrExist) {
			return nil, errors.Wrap(err, "create run marker")
		}

		if !isMarkerStale(ctx, markerPath) {
			break
		}

		logger.Info(ctx, "The run marker is stale, removing it")

		if err = os.Remove(markerPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(err, "remove stale run marker")
		}
	}

	return nil, errors.WithHintf(
		errors.Wrapf(release.ErrBuildInProgress, "marker %s is held", markerPath),
		"Wait for the other build to finish, or delete %s if no build is running.", markerPath,
	)
}

// release removes the marker.
func (m *runMarker) release() error {
	if m == nil {
		return nil
	}

	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "remove run marker")
	}

	return nil
}

// isMarkerStale reports whether the marker at markerPath belongs to a process
// that no longer exists. A marker without a readable PID is stale once it is
// older than markerLifetime.
func isMarkerStale(ctx context.Context, markerPath string) bool {
	info, err := os.Stat(markerPath)
	if err != nil {
		// Gone already, so the next attempt can take it.
		return errors.Is(err, fs.ErrNotExist)
	}

	contents, err := os.ReadFile(markerPath)
	if err != nil {
		return false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil || pid <= 0 {
		return time.Since(info.ModTime()) > markerLifetime
	}

	if pid == os.Getpid() {
		return false
	}

	process, err := ps.FindProcess(pid)
	if err != nil {
		logger.WarnKV(ctx, "Unable to look up the marker owner", "pid", pid, "error", err)
		return false
	}

	return process == nil
}

package packager

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/skratchdot/open-golang/open"
)

// FolderOpener shows a folder to the user.
type FolderOpener func(ctx context.Context, dir string) error

// startFileManager launches the desktop handler for a path without waiting for it.
var startFileManager = open.Start

// OpenFolder opens dir in the desktop file manager without waiting for it.
// The file manager outlives the process, so it is not bound to the context.
func OpenFolder(_ context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrap(err, "stat output folder")
	}

	if !info.IsDir() {
		return errors.Newf("%s is not a folder", dir)
	}

	if err = startFileManager(dir); err != nil {
		return errors.Wrapf(err, "open %s", dir)
	}

	return nil
}

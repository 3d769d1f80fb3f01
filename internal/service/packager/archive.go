package packager

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/flate"

	"github.com/oshokin/release-builder/internal/logger"
)

// archiveFile maps a file on disk to its path inside the archive.
type archiveFile struct {
	// name is the slash-separated path inside the archive.
	name string
	// source is the file on disk.
	source string
}

// archiveWriter collects files and writes them as one zip archive.
// Files are written sorted by archive path, so equal inputs give equal archives
// regardless of the directory walk order.
type archiveWriter struct {
	files []archiveFile
	seen  map[string]struct{}
}

func newArchiveWriter() *archiveWriter {
	return &archiveWriter{
		seen: make(map[string]struct{}),
	}
}

// add queues source under name. A name that is already queued is ignored.
func (w *archiveWriter) add(name, source string) {
	if _, ok := w.seen[name]; ok {
		return
	}

	w.seen[name] = struct{}{}
	w.files = append(w.files, archiveFile{name: name, source: source})
}

// writeTo writes the archive to a temp file next to target and renames it into
// place once every entry has been written. On failure the temp file is removed
// and nothing appears at target.
func (w *archiveWriter) writeTo(ctx context.Context, target string) (err error) {
	sort.Slice(w.files, func(i, j int) bool {
		return w.files[i].name < w.files[j].name
	})

	tmp, err := os.CreateTemp(filepath.Dir(target), ".release-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp archive")
	}

	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	zw := zip.NewWriter(tmp)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, file := range w.files {
		if err = ctx.Err(); err != nil {
			return errors.Wrap(err, "archive interrupted")
		}

		if err = writeEntry(zw, file); err != nil {
			return errors.Wrapf(err, "add %s", file.name)
		}

		logger.DebugKV(ctx, "Added archive entry", "name", file.name)
	}

	if err = zw.Close(); err != nil {
		return errors.Wrap(err, "finish archive")
	}

	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync archive")
	}

	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close archive")
	}

	if err = os.Rename(tmpName, target); err != nil {
		return errors.Wrap(err, "move archive into place")
	}

	return nil
}

// writeEntry copies one file into the archive, keeping its mode and modification time.
func writeEntry(zw *zip.Writer, file archiveFile) error {
	source, err := os.Open(filepath.Clean(file.source))
	if err != nil {
		return err
	}

	defer func() {
		_ = source.Close()
	}()

	info, err := source.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}

	header.Name = file.name
	header.Method = zip.Deflate

	entry, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(entry, source)

	return err
}

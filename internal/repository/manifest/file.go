package manifest

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/oshokin/release-builder/internal/domain/release"
)

// DefaultFileMode is applied when the manifest is written for the first time.
const DefaultFileMode fs.FileMode = 0o644

// Repository defines persistence operations for the manifest.
type Repository interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// FileRepository keeps the manifest in a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the manifest.
	path string
	// mu serializes reads and writes of the file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads and writes JSON at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the manifest location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and parses the manifest.
func (r *FileRepository) Load(_ context.Context) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WithHintf(
				errors.Wrapf(release.ErrManifestNotFound, "read %s", r.path),
				"Run the builder from the extension root; expected the manifest at %s.", r.path,
			)
		}

		return nil, errors.Wrap(err, "read manifest")
	}

	doc, err := ParseDocument(contents)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(release.ErrManifestParse, "parse %s: %v", r.path, err),
			"The manifest must be a single valid JSON object.",
		)
	}

	return doc, nil
}

// Save writes the document to disk. The file is replaced atomically, so an
// interrupted write leaves the previous manifest intact.
func (r *FileRepository) Save(_ context.Context, doc *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := doc.Encode()
	if err != nil {
		return errors.Wrap(err, "encode manifest")
	}

	mode := DefaultFileMode
	if info, statErr := os.Stat(r.path); statErr == nil {
		mode = info.Mode().Perm()
	}

	if err = writeFileAtomic(r.path, data, mode); err != nil {
		return errors.Wrap(err, "write manifest")
	}

	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}

	tmpName := tmp.Name()

	defer func() {
		// Still present only when something below failed.
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()

		return errors.Wrap(err, "write temp file")
	}

	if err = tmp.Chmod(perm); err != nil {
		_ = tmp.Close()

		return errors.Wrap(err, "set file mode")
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()

		return errors.Wrap(err, "sync temp file")
	}

	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}

	if err = os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "rename temp file")
	}

	return nil
}

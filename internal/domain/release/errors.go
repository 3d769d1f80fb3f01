package release

import "github.com/cockroachdb/errors"

// Error kinds surfaced by the release builder. Concrete errors wrap one of
// these, so callers match them with errors.Is.
var (
	// ErrManifestNotFound means the manifest file does not exist.
	ErrManifestNotFound = errors.New("manifest not found")
	// ErrManifestParse means the manifest is not a well-formed JSON object.
	ErrManifestParse = errors.New("manifest parse error")
	// ErrInvalidVersionFormat means a version component is not a non-negative integer.
	ErrInvalidVersionFormat = errors.New("invalid version format")
	// ErrArchiveOverwriteLocked means an existing archive could not be removed.
	ErrArchiveOverwriteLocked = errors.New("archive overwrite locked")
	// ErrBuildInProgress means another run holds the output folder.
	ErrBuildInProgress = errors.New("another build is in progress")
	// ErrUnknownBumpKind means the bump kind is not major, minor or patch.
	ErrUnknownBumpKind = errors.New("unknown bump kind")
)

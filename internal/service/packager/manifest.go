package packager

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/oshokin/release-builder/internal/domain/release"
	"github.com/oshokin/release-builder/internal/logger"
	repository "github.com/oshokin/release-builder/internal/repository/manifest"
)

const (
	// DefaultName is reported when the manifest has no name.
	DefaultName = "extension"
	// DefaultVersion is reported when the manifest has no version.
	DefaultVersion = "0.0.0"

	nameKey        = "name"
	versionKey     = "version"
	descriptionKey = "description"
)

// Manifest is the project metadata loaded from the manifest file.
// Every mutation is persisted before the method returns.
type Manifest struct {
	repo repository.Repository
	doc  *repository.Document
}

// LoadManifest reads the manifest through repo.
func LoadManifest(ctx context.Context, repo repository.Repository) (*Manifest, error) {
	doc, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &Manifest{
		repo: repo,
		doc:  doc,
	}, nil
}

// Name returns the human-readable project name.
func (m *Manifest) Name() string {
	return m.stringOr(nameKey, DefaultName)
}

// Slug returns the file-name-safe form of Name.
func (m *Manifest) Slug() string {
	return release.Slugify(m.Name())
}

// Version returns the current version string.
func (m *Manifest) Version() string {
	return m.stringOr(versionKey, DefaultVersion)
}

// Description returns the project description.
func (m *Manifest) Description() string {
	return m.stringOr(descriptionKey, "")
}

// Get returns the decoded value of any top-level field, or def when the field is absent.
func (m *Manifest) Get(key string, def any) any {
	if value, found := m.doc.Value(key); found {
		return value
	}

	return def
}

// SetVersion stores version and writes the manifest synchronously.
// On a failed write the in-memory state is left unchanged.
func (m *Manifest) SetVersion(ctx context.Context, version string) error {
	next := m.doc.Clone()
	if err := next.Set(versionKey, version); err != nil {
		return err
	}

	if err := m.repo.Save(ctx, next); err != nil {
		return errors.Wrap(err, "persist version")
	}

	m.doc = next

	return nil
}

// Bump increments the version by kind, persists it and returns the versions
// before and after the change. A missing version counts as DefaultVersion; a
// version that is present but not a string is rejected.
func (m *Manifest) Bump(ctx context.Context, kind release.BumpKind) (string, string, error) {
	if m.doc.Has(versionKey) {
		if _, ok := m.doc.String(versionKey); !ok {
			raw, _ := m.doc.Raw(versionKey)

			return "", "", errors.WithHint(
				errors.Wrapf(release.ErrInvalidVersionFormat, "version %s is not a string", raw),
				`Write the version as a quoted string, for example "1.2.0".`,
			)
		}
	}

	oldVersion := m.Version()

	newVersion, err := release.BumpVersion(oldVersion, kind)
	if err != nil {
		return "", "", err
	}

	if err = m.SetVersion(ctx, newVersion); err != nil {
		return "", "", err
	}

	logger.InfoKV(ctx, "Version bumped", "from", oldVersion, "to", newVersion, "kind", kind)

	return oldVersion, newVersion, nil
}

func (m *Manifest) stringOr(key, def string) string {
	if value, ok := m.doc.String(key); ok {
		return value
	}

	return def
}

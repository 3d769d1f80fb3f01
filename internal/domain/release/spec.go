package release

import "fmt"

const (
	// DefaultManifestFilename is the manifest location relative to the project root.
	DefaultManifestFilename = "manifest.json"
	// DefaultOutputFolder is where archives are written, relative to the project root.
	DefaultOutputFolder = "releases"
	// DefaultStoreSuffix marks the store package name.
	DefaultStoreSuffix = "-store"
	// ArchiveExtension is appended to every package name.
	ArchiveExtension = ".zip"
)

// PackageSpec lists the root-relative entries of one package variant
// and the suffix used in its file name.
type PackageSpec struct {
	Entries []string
	Suffix  string
}

// DefaultStoreEntries returns the files needed for a store submission.
func DefaultStoreEntries() []string {
	return []string{
		DefaultManifestFilename,
		"icons",
		"src",
	}
}

// DefaultDocEntries returns the documentation added to the full package.
func DefaultDocEntries() []string {
	return []string{
		"README.md",
		"PRIVACY.md",
		"LICENSE",
		"CHANGELOG.md",
	}
}

// Specs holds both package variants.
type Specs struct {
	// Store is the minimal package.
	Store PackageSpec
	// Docs lists documentation entries appended to Store for the full package.
	Docs []string
}

// DefaultSpecs returns the store and documentation entries of a typical extension.
func DefaultSpecs() Specs {
	return Specs{
		Store: PackageSpec{
			Entries: DefaultStoreEntries(),
			Suffix:  DefaultStoreSuffix,
		},
		Docs: DefaultDocEntries(),
	}
}

// Full returns the full package spec built from the given existing store and doc entries.
func Full(store, docs []string) PackageSpec {
	entries := make([]string, 0, len(store)+len(docs))
	entries = append(entries, store...)
	entries = append(entries, docs...)

	return PackageSpec{Entries: entries}
}

// ArchiveName returns "{slug}-v{version}{suffix}.zip".
func ArchiveName(slug, version, suffix string) string {
	return fmt.Sprintf("%s-v%s%s%s", slug, version, suffix, ArchiveExtension)
}

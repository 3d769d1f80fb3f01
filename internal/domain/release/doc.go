// Package release contains the packaging rules for an extension release.
//
// It knows how a project name becomes a slug, how a version string is bumped,
// which paths are kept out of archives, which entries each package variant
// carries and how archives are named. Nothing here touches the file system.
package release

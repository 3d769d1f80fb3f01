// Package version exposes build metadata of the release builder.
//
// Version, Commit and BuildTime are injected at build time via Go ldflags and
// default to placeholder values for local builds.
package version

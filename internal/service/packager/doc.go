// Package packager builds the release archives of a browser extension.
//
// Manifest wraps the manifest file and bumps its version with an immediate
// write-through. Assembler turns package specs into zip archives, pruning
// excluded trees while it walks. Run wires both together for the CLI: an
// optional bump, both builds, a printed summary and, optionally, opening the
// output folder.
package packager

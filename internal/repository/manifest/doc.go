// Package manifest persists the extension manifest.
//
// The manifest is kept as an ordered JSON document: fields this tool does not
// understand are written back untouched and in their original order.
// FileRepository loads and saves it atomically on disk.
package manifest

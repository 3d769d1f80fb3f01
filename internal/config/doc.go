// Package config defines the optional release settings file and helpers to
// load, validate and save it in YAML format.
//
// A project without a settings file is packaged with the defaults: manifest.json,
// icons and src in the store package, the usual documentation files on top of
// that in the full package, and archives written to releases/.
package config

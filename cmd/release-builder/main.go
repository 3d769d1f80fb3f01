// Package main is the entry point of the release-builder CLI.
package main

import "github.com/oshokin/release-builder/cmd/release-builder/cmd"

func main() {
	cmd.Execute()
}

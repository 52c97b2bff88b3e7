// Package main is the single-binary entrypoint for devxp: one binary that
// records activity, serves the API, and prints your progression.
package main

import "github.com/whoamaiii/devxp/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}

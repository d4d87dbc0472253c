package main

import "fmt"

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionString(verbose bool) string {
	if !verbose {
		return "replops " + version
	}
	return fmt.Sprintf("replops %s (commit %s, built %s)", version, commit, date)
}

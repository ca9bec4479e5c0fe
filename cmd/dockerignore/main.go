// Package main provides the entry point for the dockerignore CLI.
package main

import (
	"os"

	"github.com/Sriram-PR/go-dockerignore/cmd/dockerignore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the decoderd application.
package main

import (
	"os"

	"github.com/decoderd/decoderd/cmd/decoderd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

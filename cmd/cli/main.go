// Package main is the entry point for the bidfix CLI.
package main

import (
	"os"

	"github.com/7mit3/BidFix-sub000/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

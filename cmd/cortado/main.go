// Package main provides the entry point for the cortado CLI.
package main

import (
	"os"

	"github.com/cafeops/cortado/cmd/cortado/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

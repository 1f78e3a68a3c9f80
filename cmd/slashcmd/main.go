// Package main provides the entry point for the slashcmd CLI.
package main

import (
	"fmt"
	"os"

	"github.com/slashcmd/slashcmd/cmd/slashcmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/reflex-lang/reflex/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/nhle/obra-tracker/cmd/obratrack/commands"
	"github.com/nhle/obra-tracker/cmd/obratrack/internal/clierr"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "obratrack:", err)
		os.Exit(clierr.ExitCodeOf(err))
	}
}

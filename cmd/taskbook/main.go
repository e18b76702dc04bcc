// Package main provides the entry point for the taskbook CLI.
package main

import (
	"os"

	"github.com/randalmurphal/taskbook/internal/cli"
	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(tberrors.ExitCode(err))
	}
}

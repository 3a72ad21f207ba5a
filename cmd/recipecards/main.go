package main

import (
	"os"

	"recipecards/internal/cli"
	"recipecards/internal/logging"
)

// main is the entry point for the recipecards binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

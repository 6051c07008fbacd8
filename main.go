// Package main is the entry point for the redmine-loader CLI.
package main

import (
	"fmt"
	"os"

	"github.com/docloaders/redmine-loader/cmd"
	"github.com/docloaders/redmine-loader/internal/logging"
)

// main executes the root command and handles any errors that occur.
func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logging.Debug("starting redmine-loader", "log_level", logLevel)

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package cmd provides the command-line interface for the Redmine loader.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "redmine-loader",
	Short: "redmine-loader crawls Redmine issues into normalized documents",
	Long: `redmine-loader fetches issues from a Redmine instance over its REST API
and emits each one as a normalized document: subject, description, and
optionally journal comments and extracted attachment text, flattened into
a single body for downstream indexing.

Connection settings come from the environment:
  REDMINE_URL      base URL of the Redmine instance
  REDMINE_API_KEY  API key used for every request`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

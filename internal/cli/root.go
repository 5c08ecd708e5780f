// Package cli implements the censusacs command-line interface.
//
// This package provides commands for fetching American Community Survey
// tables, looking up state FIPS codes, serving the same queries over HTTP
// and inspecting the configuration. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - get: Fetch estimates or margins of error and print or export them
//   - fips: Translate state postal codes to FIPS codes
//   - serve: Run the read-only HTTP gateway
//   - config: Show the config file location and effective settings
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The CLI's
// logger is also handed to the census client, so retries and empty
// responses show up as warnings.
//
// # Example
//
//	import "github.com/matzehuels/censusacs/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the censusacs CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
func Execute(ctx context.Context) error {
	var verbose bool

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	return root.ExecuteContext(ctx)
}

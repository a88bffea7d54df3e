// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-archiver",
	Short: "A housekeeping job that archives inactive repositories in a GitHub organization.",
	Long: `github-archiver scans every non-archived repository of a GitHub organization.
Repositories inactive for longer than the configured threshold first receive a
notification issue; once that issue has been open for the notification period
the repository is archived.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		exitErr := NormalizeError(err)
		fmt.Fprintf(os.Stderr, "Error (%s): %v\n", exitErr.Kind, exitErr.Err)
		os.Exit(exitErr.Code)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (defaults to LOG_FORMAT)")
}

// globalOptions reads the persistent flags shared by every subcommand.
func globalOptions(cmd *cobra.Command) runOptions {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logFormat, _ := cmd.Flags().GetString("log-format")
	return runOptions{verbose: verbose, logFormat: logFormat}
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one archive pass and outputs the summary as JSON",
	Long: `Runs one housekeeping pass over the organization named by GITHUB_ORG and
prints the run summary in JSON format. With --dry-run every decision is made and
counted but no issue is opened and no repository is archived.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := globalOptions(cmd)
		opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
		opts.configPath, _ = cmd.Flags().GetString("config")

		summary, err := runOnce(cmd.Context(), opts)
		if err != nil {
			return err
		}

		// Marshal the summary into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary to JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("dry-run", false, "Decide and report without creating issues or archiving")
	runCmd.Flags().String("config", "", "Path to the local configuration document (defaults to CONFIG_PATH)")
}

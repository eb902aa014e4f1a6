package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deduce-tools/deduce/internal/cli"
	"github.com/deduce-tools/deduce/internal/deduction"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("json", false, "output version in JSON format")

	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := cli.GetVersionInfo()

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(map[string]interface{}{
			"version_info": info,
			"ruleset":      deduction.RulesetVersion,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))

		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), info.String())
	fmt.Fprintf(cmd.OutOrStdout(), "Ruleset: %s\n", deduction.RulesetVersion)

	return nil
}

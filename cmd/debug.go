package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Inspect the topic index",
	RunE: func(cmd *cobra.Command, args []string) error {
		rawTopics, _ := cmd.Flags().GetStringSlice("topic")
		reset, _ := cmd.Flags().GetBool("reset")
		asJSON, _ := cmd.Flags().GetBool("json")

		eng, closeFn, err := openEngine(cmd.Context(), log)
		if err != nil {
			return err
		}
		defer closeFn()

		if reset {
			eng.ResetIndex()
		}
		report, err := eng.DebugTopics(cmd.Context(), parseTopics(rawTopics))
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), report)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "index %s: %d sentences, %d topics\n",
			report.IndexVersion, report.SentenceCount, report.TopicCount)
		fmt.Fprintf(out, "%-32s  %5s  %s\n", "ID", "Count", "Label")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, t := range report.Topics {
			fmt.Fprintf(out, "%-32s  %5d  %s\n", t.ID, t.CandidateCount, t.Label)
		}
		return nil
	},
}

func init() {
	debugCmd.Flags().StringSliceP("topic", "t", nil, "Restrict the report to these topic ids")
	debugCmd.Flags().Bool("reset", false, "Rebuild the index before reporting")
	debugCmd.Flags().Bool("json", false, "Print the report as JSON")
}

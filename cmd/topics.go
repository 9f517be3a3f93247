package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Print the topic tree with candidate counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		showEmpty, _ := cmd.Flags().GetBool("all")

		eng, closeFn, err := openEngine(cmd.Context(), log)
		if err != nil {
			return err
		}
		defer closeFn()

		if asJSON {
			nodes, err := eng.TopicTree(cmd.Context())
			if err != nil {
				return fmt.Errorf("build topic tree: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), nodes)
		}

		tree, err := eng.Tree(cmd.Context())
		if err != nil {
			return fmt.Errorf("build topic tree: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-48s  %5s  %s\n", "Topic", "Count", "ID")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, r := range tree.Flatten() {
			if r.Leaf && r.CandidateCount == 0 && !showEmpty {
				continue
			}
			label := strings.Repeat("  ", r.Depth) + r.Label
			if r.Info != "" {
				label += " (" + r.Info + ")"
			}
			fmt.Fprintf(out, "%-48s  %5d  %s\n", label, r.CandidateCount, r.ID)
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().Bool("json", false, "Print the nested tree as JSON")
	topicsCmd.Flags().Bool("all", false, "Include words with no sentences")
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingoquiz/internal/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate a quiz for one or more topics",
	Example: "  lingoquiz quiz --topic word:verb.ser --topic group:pron.subject --count 4 --seed golden\n" +
		"  lingoquiz quiz -t pos:adverb -n 2 --json",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		rawTopics, _ := cmd.Flags().GetStringSlice("topic")
		seed, _ := cmd.Flags().GetString("seed")
		rawBoost, _ := cmd.Flags().GetStringSlice("boost")
		asJSON, _ := cmd.Flags().GetBool("json")

		qc := quiz.Config{
			QuestionCount: count,
			Topics:        parseTopics(rawTopics),
			Seed:          seed,
			BoostTopics:   parseTopics(rawBoost),
		}
		// Reject bad requests before touching any source.
		if err := quiz.Validate(qc); err != nil {
			return err
		}

		eng, closeFn, err := openEngine(cmd.Context(), log)
		if err != nil {
			return err
		}
		defer closeFn()

		q, err := eng.GenerateQuiz(cmd.Context(), qc)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), q)
		}

		tree, err := eng.Tree(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		md := q.Metadata
		fmt.Fprintf(out, "%d of %d questions  seed=%s  index=%s\n",
			len(q.Questions), qc.QuestionCount, md.EffectiveSeed, q.IndexVersion)
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for i, question := range q.Questions {
			labels := make([]string, 0, len(question.MatchedTopics))
			for _, t := range question.MatchedTopics {
				labels = append(labels, tree.Label(t))
			}
			fmt.Fprintf(out, "%3d. [#%d] %s\n      %s\n",
				i+1, question.SentenceID, question.Sentence.Text(), strings.Join(labels, ", "))
		}
		if md.Shortfall {
			fmt.Fprintf(out, "\nOnly %d sentences match these topics.\n", md.UnionSize)
		}
		return nil
	},
}

func init() {
	quizCmd.Flags().IntP("count", "n", 10, "Number of questions")
	quizCmd.Flags().StringSliceP("topic", "t", nil, "Topic id to include (repeatable, order matters)")
	quizCmd.Flags().String("seed", "", "Seed for a reproducible quiz (default: time-derived)")
	quizCmd.Flags().StringSlice("boost", nil, "Topic id to boost (recorded only)")
	quizCmd.Flags().Bool("json", false, "Print the quiz as JSON")
}

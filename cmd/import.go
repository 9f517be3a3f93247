package cmd

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/sample"
	"github.com/abhisek/lingoquiz/internal/taxonomy"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a corpus and taxonomy into the database",
	Long: "Import replaces the stored corpus and/or taxonomy. Files are validated " +
		"against their JSON schema first; nothing is written if validation fails.",
	RunE: func(cmd *cobra.Command, args []string) error {
		corpusPath, _ := cmd.Flags().GetString("corpus")
		taxonomyPath, _ := cmd.Flags().GetString("taxonomy")
		useSample, _ := cmd.Flags().GetBool("sample")

		var (
			lessons []corpus.Lesson
			tax     *taxonomy.Taxonomy
			err     error
		)
		switch {
		case useSample:
			if corpusPath != "" || taxonomyPath != "" {
				return errors.New("--sample cannot be combined with --corpus or --taxonomy")
			}
			if lessons, err = sample.Lessons(); err != nil {
				return err
			}
			if tax, err = sample.Taxonomy(); err != nil {
				return err
			}
		case corpusPath == "" && taxonomyPath == "":
			return errors.New("nothing to import: pass --corpus, --taxonomy or --sample")
		default:
			if corpusPath != "" {
				if lessons, err = corpus.LoadFile(corpusPath); err != nil {
					return err
				}
			}
			if taxonomyPath != "" {
				if tax, err = taxonomy.LoadFile(taxonomyPath); err != nil {
					return err
				}
			}
		}

		if tax != nil {
			if err := taxonomy.Validate(tax); err != nil {
				log.WithError(err).Warn("taxonomy has structural problems, importing anyway")
			}
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if lessons != nil {
			if err := st.ImportCorpus(ctx, lessons); err != nil {
				return fmt.Errorf("import corpus: %w", err)
			}
		}
		if tax != nil {
			if err := st.ImportTaxonomy(ctx, tax); err != nil {
				return fmt.Errorf("import taxonomy: %w", err)
			}
		}

		counts, err := st.Counts(ctx)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"lessons":   counts.Lessons,
			"sentences": counts.Sentences,
			"groups":    counts.Groups,
			"words":     counts.Words,
		}).Info("import complete")
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d lessons, %d sentences, %d groups, %d words.\n",
			counts.Lessons, counts.Sentences, counts.Groups, counts.Words)
		return nil
	},
}

func init() {
	importCmd.Flags().String("corpus", "", "Corpus JSON file")
	importCmd.Flags().String("taxonomy", "", "Taxonomy JSON file")
	importCmd.Flags().Bool("sample", false, "Import the built-in Spanish sample")
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/lingoquiz/internal/config"
	"github.com/abhisek/lingoquiz/internal/corpus"
	"github.com/abhisek/lingoquiz/internal/engine"
	"github.com/abhisek/lingoquiz/internal/logging"
	"github.com/abhisek/lingoquiz/internal/quiz"
	"github.com/abhisek/lingoquiz/internal/store"
	"github.com/abhisek/lingoquiz/internal/taxonomy"
	"github.com/abhisek/lingoquiz/internal/topic"
)

var (
	cfgFile string
	v       = viper.New()
	cfg     *config.Config
	log     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lingoquiz",
	Short: "Topic index and quiz generator for annotated sentence corpora",
	Long: "Lingoquiz indexes an annotated sentence corpus by grammatical topic, " +
		"browses the topic tree and builds reproducible quizzes from it.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./lingoquiz.yaml or ~/.config/lingoquiz/lingoquiz.yaml)")
	flags.String("db", "", "Path to SQLite database file (overrides LINGOQUIZ_DB env var)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")
	flags.String("corpus-file", "", "Read the corpus from this JSON file instead of the database")
	flags.String("taxonomy-file", "", "Read the taxonomy from this JSON file instead of the database")

	mustBind("store.dsn", "db")
	mustBind("log.level", "log-level")
	mustBind("log.format", "log-format")
	mustBind("source.corpus_file", "corpus-file")
	mustBind("source.taxonomy_file", "taxonomy-file")

	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(versionCmd)
}

func mustBind(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// setup loads configuration and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(loaded.Log, os.Stderr)
	if err != nil {
		return err
	}
	cfg, log = loaded, logger
	return nil
}

// resolveDBPath returns the configured DSN (--db flag, LINGOQUIZ_STORE_DSN
// or the config file), falling back to LINGOQUIZ_DB and then the default
// XDG path.
func resolveDBPath() (string, error) {
	if p := cfg.Store.DSN; p != "" {
		if strings.HasPrefix(p, "file:") {
			return p, nil
		}
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the configured database.
func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.WithField("path", dbPath).Debug("store opened")
	return st, nil
}

// openEngine builds the engine over file sources when configured, or the
// database otherwise. The returned func releases the sources.
func openEngine(ctx context.Context, logger logrus.FieldLogger) (*engine.Engine, func(), error) {
	gen := quiz.NewGenerator(quiz.GeneratorConfig{MaxSweeps: cfg.Quiz.MaxSweeps})

	if cfg.Source.UseFiles() {
		logger.WithFields(logrus.Fields{
			"corpus":   cfg.Source.CorpusFile,
			"taxonomy": cfg.Source.TaxonomyFile,
		}).Debug("using file sources")
		eng := engine.New(
			corpus.FileProvider{Path: cfg.Source.CorpusFile},
			taxonomy.FileProvider{Path: cfg.Source.TaxonomyFile},
			gen, logger)
		return eng, func() {}, nil
	}

	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	counts, err := st.Counts(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	if counts.Lessons == 0 || counts.Groups == 0 {
		logger.Warn("database is empty, run `lingoquiz import --sample` or import your own corpus")
	}
	return engine.New(st, st, gen, logger), func() { st.Close() }, nil
}

// parseTopics converts command line topic ids. Ids outside the known
// namespaces are kept, since they simply match nothing, but are logged.
func parseTopics(raw []string) []topic.ID {
	ids := make([]topic.ID, 0, len(raw))
	for _, r := range raw {
		if _, _, err := topic.Parse(r); err != nil {
			log.WithError(err).Warn("topic will match no sentences")
		}
		ids = append(ids, topic.ID(r))
	}
	return ids
}

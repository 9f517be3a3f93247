package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingoquiz/internal/app"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse topics and build quizzes interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd)
	},
}

// runBrowse launches the TUI. Logging is silenced while the alt screen is
// active.
func runBrowse(cmd *cobra.Command) error {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	eng, closeFn, err := openEngine(cmd.Context(), quiet)
	if err != nil {
		return err
	}
	defer closeFn()

	return app.Run(app.Options{Engine: eng})
}

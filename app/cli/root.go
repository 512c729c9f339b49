// Package cli is the scadflow command line: it creates, inspects and
// renders saved projects without a user interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/bvisness/scadflow/app"
	"github.com/bvisness/scadflow/app/config"
	"github.com/bvisness/scadflow/app/logging"
	"github.com/spf13/cobra"
)

// session is what every command gets once flags and settings are resolved.
type session struct {
	configPath string
	verbosity  int
	quiet      bool

	settings *config.Settings
	logger   *slog.Logger
}

func (s *session) editorOptions() app.EditorOptions {
	return app.OptionsFromSettings(s.settings)
}

// NewRootCommand builds the command tree. Each call returns independent
// commands, so tests can run several in one process.
func NewRootCommand() *cobra.Command {
	s := &session{}
	root := &cobra.Command{
		Use:   "scadflow",
		Short: "Build and render node-graph modeling projects",
		Long: `scadflow works with node-graph projects outside the editor.

Examples:
  scadflow new part.sflow
  scadflow render 'parts/**/*.sflow' --out build/
  scadflow dump part.sflow
  scadflow nodes vec`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(s.configPath)
			if err != nil {
				return err
			}
			s.settings = settings

			level := logging.LevelFromString(settings.Log.Level)
			if s.verbosity > 0 || s.quiet {
				level = logging.LevelFromVerbosity(s.verbosity, s.quiet)
			}
			s.logger = logging.New(cmd.ErrOrStderr(), level, settings.Log.Format)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&s.configPath, "config", "", "settings file (default: ./scadflow.yaml)")
	root.PersistentFlags().CountVarP(&s.verbosity, "verbose", "v", "more logging, repeat for debug output")
	root.PersistentFlags().BoolVarP(&s.quiet, "quiet", "q", false, "no logging")

	root.AddCommand(
		newNewCommand(s),
		newRenderCommand(s),
		newDumpCommand(s),
		newNodesCommand(s),
		newImportCommand(s),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}

func openEditor(s *session, path string) (*app.Editor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return app.OpenEditor(data, path, s.editorOptions(), s.logger)
}

func saveEditor(e *app.Editor, path string) error {
	data, err := e.Save()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	e.MarkSaved()
	return nil
}

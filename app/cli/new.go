package cli

import (
	"fmt"
	"os"

	"github.com/bvisness/scadflow/app"
	"github.com/bvisness/scadflow/app/refactor"
	"github.com/spf13/cobra"
)

func newNewCommand(s *session) *cobra.Command {
	var (
		preamble string
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create an empty project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}

			e, err := app.NewEmptyEditor(s.editorOptions(), s.logger)
			if err != nil {
				return err
			}
			if preamble != "" {
				if _, err := e.Apply("Edit preamble", &refactor.EditPreamble{Text: preamble}); err != nil {
					return err
				}
			}
			if err := saveEditor(e, path); err != nil {
				return err
			}
			s.logger.Info("created project", "path", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&preamble, "preamble", "", "text emitted before all generated code")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

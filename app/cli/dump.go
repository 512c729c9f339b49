package cli

import (
	"github.com/bvisness/scadflow/app/inspect"
	"github.com/spf13/cobra"
)

func newDumpCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print a YAML outline of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEditor(s, args[0])
			if err != nil {
				return err
			}
			out, err := inspect.YAML(e.Project)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

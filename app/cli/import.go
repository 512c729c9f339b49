package cli

import (
	"fmt"
	"os"

	"github.com/bvisness/scadflow/app"
	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/bvisness/scadflow/app/refactor"
	"github.com/spf13/cobra"
)

func newImportCommand(s *session) *cobra.Command {
	var (
		manifestPath string
		include      bool
	)
	cmd := &cobra.Command{
		Use:   "import <project> <source-path>",
		Short: "Import an external source file into a project",
		Long: `Register an external source file and add an import at the start of the
main program. The symbols it exports are read from a JSON manifest.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, sourcePath := args[0], args[1]

			manifest := []byte("{}")
			if manifestPath != "" {
				data, err := os.ReadFile(manifestPath)
				if err != nil {
					return err
				}
				manifest = data
			}
			mode := core.IncludeUse
			if include {
				mode = core.IncludeInclude
			}
			ext, err := core.ParseExternalManifest(sourcePath, mode, manifest)
			if err != nil {
				return err
			}

			e, err := openEditor(s, projectPath)
			if err != nil {
				return err
			}
			if err := addImport(e, ext); err != nil {
				return err
			}
			if err := saveEditor(e, projectPath); err != nil {
				return err
			}
			s.logger.Info("imported", "project", projectPath, "source", sourcePath, "mode", mode)
			return nil
		},
	}
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "JSON manifest of the symbols the file exports")
	cmd.Flags().BoolVar(&include, "include", false, "include the file instead of using it")
	return cmd
}

// addImport adds the import node and splices it in right after the start
// node of the main program, as one undoable step.
func addImport(e *app.Editor, ext *core.ExternalReference) error {
	mainInv := e.Project.Main()
	r := &refactor.AddImport{Graph: mainInv.Description.ID, Reference: ext}
	if starts := mainInv.Graph.NodesOfKind(nodes.KindStart); len(starts) > 0 {
		r.After = starts[0].ID
	}
	if _, err := e.Apply(r.Title(), r); err != nil {
		return fmt.Errorf("placing import: %w", err)
	}
	return nil
}

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

// OutputExt is the extension of rendered files written with --out.
const OutputExt = ".scad"

func newRenderCommand(s *session) *cobra.Command {
	var (
		outDir    string
		invokable string
	)
	cmd := &cobra.Command{
		Use:   "render <glob>...",
		Short: "Generate code for projects",
		Long: `Generate code for every project matching the given patterns.
Patterns support ** to match any number of directories.

Without --out the code is written to standard output.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no project matches %s", strings.Join(args, ", "))
			}
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return err
				}
			}

			for _, path := range paths {
				code, err := renderFile(s, path, invokable)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if outDir == "" {
					if _, err := io.WriteString(cmd.OutOrStdout(), code); err != nil {
						return err
					}
					continue
				}
				dest := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+OutputExt)
				if err := os.WriteFile(dest, []byte(code), 0644); err != nil {
					return err
				}
				s.logger.Info("rendered", "project", path, "output", dest)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write rendered files into")
	cmd.Flags().StringVar(&invokable, "invokable", "", "render only the function or module with this name")
	return cmd
}

// expandGlobs resolves every pattern and drops duplicates, keeping the order
// in which files were first matched.
func expandGlobs(patterns []string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func renderFile(s *session, path, invokable string) (string, error) {
	e, err := openEditor(s, path)
	if err != nil {
		return "", err
	}
	if invokable == "" {
		return e.RenderProject()
	}
	for _, inv := range e.Project.Invokables {
		if inv.Description.Name == invokable {
			return e.Render(inv.Description.ID)
		}
	}
	return "", fmt.Errorf("no function or module named %q", invokable)
}

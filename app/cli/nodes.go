package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/bvisness/scadflow/app/nodes"
	"github.com/spf13/cobra"
)

func newNodesCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "nodes [query]",
		Short: "Search the node palette",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			results := nodes.Search(query)
			s.logger.Debug("node search", "query", query, "results", len(results))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, info := range results {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Kind, info.Title, info.Description)
			}
			return w.Flush()
		},
	}
}

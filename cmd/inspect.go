package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/topoforge/api/schemas"
	"github.com/xkilldash9x/topoforge/internal/graph"
	"github.com/xkilldash9x/topoforge/internal/stats"
)

func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect <graph.json>",
		Short: "Report the empirical shape of a generated graph",
		Long: `Loads a serialized graph, validates its references and prints a JSON
profile: entity counts, children-per-group distributions, per-direction
fan-out histograms and enum frequency tables. Compare the profile against
the configured distributions to check statistical convergence.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := schemas.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			if err := graph.CheckReferences(g); err != nil {
				return fmt.Errorf("graph %q is not referentially consistent: %w", args[0], err)
			}

			report, err := stats.Extract(g).ToJSON()
			if err != nil {
				return err
			}
			fmt.Print(string(report))
			return nil
		},
	}
	return inspectCmd
}

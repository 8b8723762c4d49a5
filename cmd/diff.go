package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/topoforge/api/schemas"
	"github.com/xkilldash9x/topoforge/internal/graphdiff"
)

func newDiffCmd() *cobra.Command {
	diffCmd := &cobra.Command{
		Use:   "diff <a.json> <b.json>",
		Short: "Compare two serialized graphs entity by entity",
		Long: `Performs a semantic comparison of two graphs: same entity populations,
same ids, same attribute values, independent of entity order. Two runs with
the same configuration and seed must compare equivalent; the exit code is
non-zero when they do not.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := schemas.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			b, err := schemas.ReadGraphFile(args[1])
			if err != nil {
				return err
			}

			result := graphdiff.Compare(a, b)
			if !result.Equivalent {
				return fmt.Errorf("graphs differ: %s", result.Diff)
			}
			fmt.Println("graphs are equivalent")
			return nil
		},
	}
	return diffCmd
}

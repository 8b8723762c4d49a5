package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/topoforge/internal/config"
	"github.com/xkilldash9x/topoforge/internal/generator"
	"github.com/xkilldash9x/topoforge/internal/observability"
	"github.com/xkilldash9x/topoforge/internal/store"
)

func newGenerateCmd() *cobra.Command {
	var (
		output    string
		seed      int64
		overwrite bool
		persist   bool
	)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a graph from the configured distributions",
		Long: `Builds every distribution table from configuration, runs the generation
pipeline (collections, grouping layers, leaf populations, processing edges,
data-integrity records), verifies the assembled graph against its invariants
and writes it to the output file. The seed is embedded in the output, so a
run can always be reproduced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg := config.Get()

			if seed == 0 {
				seed = cfg.Generator.Seed
			}

			runID := uuid.NewString()
			logger = logger.With(zap.String("run_id", runID))

			pipeline, err := generator.New(cfg, seed, logger)
			if err != nil {
				return fmt.Errorf("failed to build generation pipeline: %w", err)
			}

			snapshot, err := pipeline.Run(ctx)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			if err := snapshot.Wire().WriteFile(output, overwrite); err != nil {
				return err
			}
			logger.Info("Graph written",
				zap.String("path", output),
				zap.Int64("seed", snapshot.Seed()))

			if persist {
				if cfg.Postgres.URL == "" {
					return fmt.Errorf("--store requires postgres.url (or TOPOFORGE_POSTGRES_URL) to be configured")
				}
				pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer pool.Close()

				storeService, err := store.New(ctx, pool, logger)
				if err != nil {
					return fmt.Errorf("failed to initialize store service: %w", err)
				}
				if err := storeService.PersistGraph(ctx, runID, snapshot.Wire()); err != nil {
					return fmt.Errorf("failed to persist graph: %w", err)
				}
				logger.Info("Graph persisted", zap.String("run_id", runID))
			}
			return nil
		},
	}

	generateCmd.Flags().StringVarP(&output, "output", "o", "graph.json", "Path to write the generated graph to")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 picks one from the clock and logs it)")
	generateCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the output file if it already exists")
	generateCmd.Flags().BoolVar(&persist, "store", false, "Also persist the graph to the configured PostgreSQL database")

	return generateCmd
}

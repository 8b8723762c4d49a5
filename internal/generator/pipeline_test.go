package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/topoforge/internal/config"
)

// testConfig returns a small but fully populated topology configuration
// exercising every distribution kind.
func testConfig() *config.Config {
	return &config.Config{
		Collection: config.CollectionConfig{
			Count:                     2,
			DatasetCollectionCountMap: "[1:1 2:1]",
			SystemCollectionCountMap:  "[1:1 2:1]",
		},
		DatasetCollection: config.DatasetCollectionConfig{
			Count:           3,
			DatasetCountMap: "[0:1 2:2]",
		},
		SystemCollection: config.SystemCollectionConfig{
			Count:          2,
			SystemCountMap: "[2:1 3:1]",
		},
		Dataset: config.DatasetConfig{
			Count:       10,
			EnvCountMap: "[PRODUCTION_ENV:8 STAGING_ENV:2]",
			SLORange:    config.RangeConfig{Min: 60, Max: 3600},
		},
		System: config.SystemConfig{
			Count:               5,
			EnvCountMap:         "[PRODUCTION_ENV:4 DEVELOPMENT_ENV:1]",
			CriticalityProbaMap: "[NOT_CRITICAL:0.6 CRITICAL_OTHER:0.4]",
			InputsCountMap:      "[0:1 2:2 3:1]",
			OutputsCountMap:     "[1:2 3:1]",
		},
		DataProcessing: config.DataProcessingConfig{
			ImpactProbaMap:    "[DOWN:0.2 DEGRADED:0.5 NONE:0.3]",
			FreshnessProbaMap: "[IMMEDIATE:0.3 DAY:0.4 WEEK:0.3]",
		},
		DataIntegrity: config.DataIntegrityConfig{
			VolatilityProbaMap:  "[0:0.5 1:0.5]",
			RestorationRange:    config.RangeConfig{Min: 60, Max: 600},
			RegenerationRange:   config.RangeConfig{Min: 300, Max: 900},
			ReconstructionRange: config.RangeConfig{Min: 600, Max: 1800},
		},
	}
}

func TestPipelineDeterminism(t *testing.T) {
	t.Parallel()

	t.Run("should produce byte-identical output for the same seed", func(t *testing.T) {
		t.Parallel()

		first, err := New(testConfig(), 1234, nil)
		require.NoError(t, err)
		second, err := New(testConfig(), 1234, nil)
		require.NoError(t, err)

		snapA, err := first.Run(context.Background())
		require.NoError(t, err)
		snapB, err := second.Run(context.Background())
		require.NoError(t, err)

		jsonA, err := snapA.Wire().ToJSON()
		require.NoError(t, err)
		jsonB, err := snapB.Wire().ToJSON()
		require.NoError(t, err)
		assert.Equal(t, jsonA, jsonB)
	})

	t.Run("should produce identical snapshots across repeated runs of one pipeline", func(t *testing.T) {
		t.Parallel()

		pipeline, err := New(testConfig(), 99, nil)
		require.NoError(t, err)

		snapA, err := pipeline.Run(context.Background())
		require.NoError(t, err)
		snapB, err := pipeline.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, snapA.Wire(), snapB.Wire())
	})

	t.Run("should produce different graphs for different seeds", func(t *testing.T) {
		t.Parallel()

		first, err := New(testConfig(), 1, nil)
		require.NoError(t, err)
		second, err := New(testConfig(), 2, nil)
		require.NoError(t, err)

		snapA, err := first.Run(context.Background())
		require.NoError(t, err)
		snapB, err := second.Run(context.Background())
		require.NoError(t, err)
		assert.NotEqual(t, snapA.Wire(), snapB.Wire())
	})

	t.Run("should pick and record a seed when none is configured", func(t *testing.T) {
		t.Parallel()

		pipeline, err := New(testConfig(), 0, nil)
		require.NoError(t, err)
		assert.NotZero(t, pipeline.Seed())

		snap, err := pipeline.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, pipeline.Seed(), snap.Seed())
	})
}

func TestPipelinePopulations(t *testing.T) {
	t.Parallel()

	t.Run("should hit every configured population total exactly", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		pipeline, err := New(cfg, 7, nil)
		require.NoError(t, err)

		snap, err := pipeline.Run(context.Background())
		require.NoError(t, err)

		wire := snap.Wire()
		assert.Len(t, wire.Collections, cfg.Collection.Count)
		assert.Len(t, wire.DatasetCollections, cfg.DatasetCollection.Count)
		assert.Len(t, wire.SystemCollections, cfg.SystemCollection.Count)
		assert.Len(t, wire.Datasets, cfg.Dataset.Count)
		assert.Len(t, wire.Systems, cfg.System.Count)
		assert.Len(t, wire.DataIntegrities, cfg.DatasetCollection.Count)
	})

	t.Run("should distribute datasets across exactly the generated collections", func(t *testing.T) {
		t.Parallel()

		// Three dataset collections, children histogram over {0, 2}, ten
		// datasets total: the sampled shares rarely sum to ten, so this
		// exercises reconciliation on every seed.
		cfg := testConfig()
		for seed := int64(1); seed <= 25; seed++ {
			pipeline, err := New(cfg, seed, nil)
			require.NoError(t, err)
			snap, err := pipeline.Run(context.Background())
			require.NoError(t, err)

			wire := snap.Wire()
			require.Len(t, wire.DatasetCollections, 3)
			require.Len(t, wire.Datasets, 10)

			groupIDs := make(map[int64]bool, len(wire.DatasetCollections))
			for _, dc := range wire.DatasetCollections {
				groupIDs[dc.ID] = true
			}
			for _, d := range wire.Datasets {
				assert.True(t, groupIDs[d.DatasetCollectionID],
					"dataset %d belongs to unknown collection %d", d.ID, d.DatasetCollectionID)
			}
		}
	})

	t.Run("should keep per-direction fan-out inside the configured support", func(t *testing.T) {
		t.Parallel()

		pipeline, err := New(testConfig(), 13, nil)
		require.NoError(t, err)
		snap, err := pipeline.Run(context.Background())
		require.NoError(t, err)

		inputSupport := map[int]bool{0: true, 2: true, 3: true}
		outputSupport := map[int]bool{1: true, 3: true}
		for _, sys := range snap.Wire().Systems {
			var in, out int
			for _, p := range snap.EdgesOf(sys.ID) {
				if p.Inputs {
					in++
				} else {
					out++
				}
			}
			assert.True(t, inputSupport[in], "system %d has input fan-out %d outside the histogram", sys.ID, in)
			assert.True(t, outputSupport[out], "system %d has output fan-out %d outside the histogram", sys.ID, out)
		}
	})

	t.Run("should give every dataset collection exactly one integrity record", func(t *testing.T) {
		t.Parallel()

		pipeline, err := New(testConfig(), 21, nil)
		require.NoError(t, err)
		snap, err := pipeline.Run(context.Background())
		require.NoError(t, err)

		owners := make(map[int64]int)
		for _, di := range snap.Wire().DataIntegrities {
			owners[di.DatasetCollectionID]++
		}
		for _, dc := range snap.Wire().DatasetCollections {
			assert.Equal(t, 1, owners[dc.ID])
		}
	})
}

func TestPipelineConfigurationErrors(t *testing.T) {
	t.Parallel()

	t.Run("should fail fast on a malformed histogram encoding", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.DatasetCollection.DatasetCountMap = "[not-a-pair]"
		_, err := New(cfg, 1, nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, "dataset_collection.dataset_count_map")
	})

	t.Run("should fail fast on probabilities summing far from one", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.System.CriticalityProbaMap = "[NOT_CRITICAL:0.3 CRITICAL_OTHER:0.3]"
		_, err := New(cfg, 1, nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, "system.system_criticality_proba_map")
	})

	t.Run("should fail fast on an inverted range", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.Dataset.SLORange = config.RangeConfig{Min: 100, Max: 10}
		_, err := New(cfg, 1, nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, "dataset.dataset_slo_range_seconds")
	})

	t.Run("should fail fast on an out-of-domain enum label", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.Dataset.EnvCountMap = "[LUNAR_ENV:10]"
		_, err := New(cfg, 1, nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, "not a known environment")
	})

	t.Run("should reject positive fan-out with zero datasets", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.Dataset.Count = 0
		cfg.DatasetCollection.Count = 0
		_, err := New(cfg, 1, nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, "dataset_count is zero")
	})
}

func TestPipelineCancellation(t *testing.T) {
	t.Parallel()

	t.Run("should abort between phases when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		pipeline, err := New(testConfig(), 5, nil)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = pipeline.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

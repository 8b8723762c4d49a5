package graphdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/topoforge/api/schemas"
)

func testGraph() *schemas.Graph {
	return &schemas.Graph{
		Seed:               7,
		Collections:        []schemas.Collection{{ID: 1, Name: "collection.1"}},
		DatasetCollections: []schemas.DatasetCollection{{ID: 1, CollectionID: 1, Name: "dataset_collection.1"}},
		SystemCollections:  []schemas.SystemCollection{{ID: 1, CollectionID: 1, Name: "system_collection.1"}},
		Datasets: []schemas.Dataset{
			{ID: 1, DatasetCollectionID: 1, Name: "dataset.1", Env: schemas.EnvProduction, SLOSeconds: 60},
			{ID: 2, DatasetCollectionID: 1, Name: "dataset.2", Env: schemas.EnvStaging, SLOSeconds: 120},
		},
		Systems: []schemas.System{
			{ID: 1, SystemCollectionID: 1, Name: "system.1", Env: schemas.EnvProduction, Criticality: schemas.CriticalityNone},
		},
		Processings: []schemas.Processing{
			{ProcessingID: 1, SystemID: 1, DatasetID: 1, Impact: schemas.ImpactDown, Freshness: schemas.FreshnessDay, Inputs: true},
		},
		DataIntegrities: []schemas.DataIntegrity{
			{ID: 1, DatasetCollectionID: 1, Volatile: false, RestorationSeconds: 60, RegenerationSeconds: 300, ReconstructionSeconds: 600},
		},
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	t.Run("should report identical graphs as equivalent", func(t *testing.T) {
		t.Parallel()

		result := Compare(testGraph(), testGraph())
		assert.True(t, result.Equivalent)
		assert.Empty(t, result.Diff)
	})

	t.Run("should ignore entity order inside a sequence", func(t *testing.T) {
		t.Parallel()

		a := testGraph()
		b := testGraph()
		b.Datasets[0], b.Datasets[1] = b.Datasets[1], b.Datasets[0]

		result := Compare(a, b)
		assert.True(t, result.Equivalent, result.Diff)
	})

	t.Run("should report a seed mismatch first", func(t *testing.T) {
		t.Parallel()

		b := testGraph()
		b.Seed = 8
		result := Compare(testGraph(), b)
		require.False(t, result.Equivalent)
		assert.Contains(t, result.Diff, "seed 7 vs 8")
	})

	t.Run("should report a population size mismatch", func(t *testing.T) {
		t.Parallel()

		b := testGraph()
		b.Datasets = b.Datasets[:1]
		result := Compare(testGraph(), b)
		require.False(t, result.Equivalent)
		assert.Contains(t, result.Diff, "graph A has 2 dataset entities, graph B has 1")
	})

	t.Run("should report a field-level difference with the entity id", func(t *testing.T) {
		t.Parallel()

		b := testGraph()
		b.Systems[0].Criticality = schemas.CriticalityOther
		result := Compare(testGraph(), b)
		require.False(t, result.Equivalent)
		assert.Contains(t, result.Diff, "system 1 differs")
	})

	t.Run("should report an id present in only one graph", func(t *testing.T) {
		t.Parallel()

		b := testGraph()
		b.Processings[0].ProcessingID = 99
		result := Compare(testGraph(), b)
		require.False(t, result.Equivalent)
		assert.Contains(t, result.Diff, "processing id 1 exists only in graph A")
	})

	t.Run("should treat empty graphs as equivalent", func(t *testing.T) {
		t.Parallel()

		result := Compare(&schemas.Graph{}, &schemas.Graph{})
		assert.True(t, result.Equivalent)
	})
}

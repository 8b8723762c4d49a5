package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/topoforge/api/schemas"
)

// validWire returns a small consistent graph: one collection owning one
// group of each kind, two datasets, one system with one input and one
// output edge, and one integrity record.
func validWire() *schemas.Graph {
	return &schemas.Graph{
		Seed:               1,
		Collections:        []schemas.Collection{{ID: 1, Name: "collection.1"}},
		DatasetCollections: []schemas.DatasetCollection{{ID: 1, CollectionID: 1, Name: "dataset_collection.1"}},
		SystemCollections:  []schemas.SystemCollection{{ID: 1, CollectionID: 1, Name: "system_collection.1"}},
		Datasets: []schemas.Dataset{
			{ID: 1, DatasetCollectionID: 1, Name: "dataset.1", Env: schemas.EnvProduction, SLOSeconds: 120},
			{ID: 2, DatasetCollectionID: 1, Name: "dataset.2", Env: schemas.EnvStaging, SLOSeconds: 500},
		},
		Systems: []schemas.System{
			{ID: 1, SystemCollectionID: 1, Name: "system.1", Env: schemas.EnvProduction, Criticality: schemas.CriticalityNone},
		},
		Processings: []schemas.Processing{
			{ProcessingID: 1, SystemID: 1, DatasetID: 1, Impact: schemas.ImpactDown, Freshness: schemas.FreshnessDay, Inputs: true},
			{ProcessingID: 2, SystemID: 1, DatasetID: 2, Impact: schemas.ImpactNone, Freshness: schemas.FreshnessWeek, Inputs: false},
		},
		DataIntegrities: []schemas.DataIntegrity{
			{ID: 1, DatasetCollectionID: 1, Volatile: true, RestorationSeconds: 100, RegenerationSeconds: 400, ReconstructionSeconds: 900},
		},
	}
}

func validExpectation() Expectation {
	return Expectation{
		Collections:        1,
		DatasetCollections: 1,
		SystemCollections:  1,
		Datasets:           2,
		Systems:            1,
		Processings:        2,
		DataIntegrities:    1,
		SystemFanOut:       map[int64]FanOut{1: {Inputs: 1, Outputs: 1}},

		SLOBounds:            Bounds{Min: 60, Max: 600},
		RestorationBounds:    Bounds{Min: 60, Max: 600},
		RegenerationBounds:   Bounds{Min: 300, Max: 900},
		ReconstructionBounds: Bounds{Min: 600, Max: 1800},
	}
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	t.Run("should accept a consistent graph and index it", func(t *testing.T) {
		t.Parallel()

		snap, err := Assemble(validWire(), validExpectation(), nil)
		require.NoError(t, err)

		d, ok := snap.Dataset(2)
		require.True(t, ok)
		assert.Equal(t, schemas.EnvStaging, d.Env)

		assert.Equal(t, []int64{1, 2}, snap.DatasetsOf(1))
		assert.Equal(t, []int64{1}, snap.SystemsOf(1))
		assert.Len(t, snap.EdgesOf(1), 2)
		assert.Equal(t, int64(1), snap.Seed())
	})

	t.Run("should reject a dangling foreign key", func(t *testing.T) {
		t.Parallel()

		wire := validWire()
		wire.Datasets[0].DatasetCollectionID = 99
		_, err := Assemble(wire, validExpectation(), nil)
		assert.ErrorContains(t, err, "missing dataset collection 99")
	})

	t.Run("should reject a duplicate id", func(t *testing.T) {
		t.Parallel()

		wire := validWire()
		wire.Datasets[1].ID = 1
		_, err := Assemble(wire, validExpectation(), nil)
		assert.ErrorContains(t, err, "duplicate dataset id 1")
	})

	t.Run("should reject an edge pointing at a missing dataset", func(t *testing.T) {
		t.Parallel()

		wire := validWire()
		wire.Processings[0].DatasetID = 42
		_, err := Assemble(wire, validExpectation(), nil)
		assert.ErrorContains(t, err, "missing dataset 42")
	})

	t.Run("should reject a population total mismatch", func(t *testing.T) {
		t.Parallel()

		expect := validExpectation()
		expect.Datasets = 3
		_, err := Assemble(validWire(), expect, nil)
		assert.ErrorContains(t, err, "demands exactly 3")
	})

	t.Run("should reject an out-of-domain enum value", func(t *testing.T) {
		t.Parallel()

		wire := validWire()
		wire.Systems[0].Criticality = "MOSTLY_HARMLESS"
		_, err := Assemble(wire, validExpectation(), nil)
		assert.ErrorContains(t, err, "out-of-domain criticality")
	})

	t.Run("should reject a ranged value outside its bounds", func(t *testing.T) {
		t.Parallel()

		wire := validWire()
		wire.Datasets[0].SLOSeconds = 10_000
		_, err := Assemble(wire, validExpectation(), nil)
		assert.ErrorContains(t, err, "slo 10000s outside")
	})

	t.Run("should reject a fan-out mismatch", func(t *testing.T) {
		t.Parallel()

		expect := validExpectation()
		expect.SystemFanOut[1] = FanOut{Inputs: 2, Outputs: 0}
		_, err := Assemble(validWire(), expect, nil)
		assert.ErrorContains(t, err, "input edges")
	})

	t.Run("should reject a dataset collection without its integrity record", func(t *testing.T) {
		t.Parallel()

		wire := validWire()
		wire.DataIntegrities[0].DatasetCollectionID = 1
		wire.DatasetCollections = append(wire.DatasetCollections,
			schemas.DatasetCollection{ID: 2, CollectionID: 1, Name: "dataset_collection.2"})
		expect := validExpectation()
		expect.DatasetCollections = 2
		_, err := Assemble(wire, expect, nil)
		assert.ErrorContains(t, err, "data integrity records")
	})
}

func TestCheckReferences(t *testing.T) {
	t.Parallel()

	t.Run("should accept a structurally valid graph without an expectation", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, CheckReferences(validWire()))
	})

	t.Run("should reject a broken reference", func(t *testing.T) {
		t.Parallel()

		wire := validWire()
		wire.Processings[1].SystemID = 77
		assert.ErrorContains(t, CheckReferences(wire), "missing system 77")
	})
}

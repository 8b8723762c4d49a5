// Package graph assembles generated entities into one immutable snapshot,
// builds the lookup indexes downstream consumers need, and verifies the
// cross-entity integrity guarantees before anything is serialized.
package graph

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/topoforge/api/schemas"
)

// Bounds is an inclusive numeric range a sampled attribute must fall in.
type Bounds struct {
	Min int64
	Max int64
}

// Contains reports whether v lies inside the inclusive range.
func (b Bounds) Contains(v int64) bool {
	return v >= b.Min && v <= b.Max
}

// FanOut is the per-direction edge count sampled for one system.
type FanOut struct {
	Inputs  int
	Outputs int
}

// Expectation carries what the assembled graph must look like: the
// configured population totals, the sampled per-system fan-outs, and the
// configured numeric bounds. Any mismatch is a defect in the generator, not
// a recoverable condition.
type Expectation struct {
	Collections        int
	DatasetCollections int
	SystemCollections  int
	Datasets           int
	Systems            int
	Processings        int
	DataIntegrities    int

	SystemFanOut map[int64]FanOut

	SLOBounds            Bounds
	RestorationBounds    Bounds
	RegenerationBounds   Bounds
	ReconstructionBounds Bounds
}

// Snapshot is the assembled, verified graph. It is immutable after
// Assemble returns; accessors hand out values and shared slices the caller
// must treat as read-only.
type Snapshot struct {
	wire *schemas.Graph

	collections        map[int64]schemas.Collection
	datasetCollections map[int64]schemas.DatasetCollection
	systemCollections  map[int64]schemas.SystemCollection
	datasets           map[int64]schemas.Dataset
	systems            map[int64]schemas.System

	datasetCollectionsOf map[int64][]int64 // collection id -> dataset collection ids
	systemCollectionsOf  map[int64][]int64 // collection id -> system collection ids
	datasetsOf           map[int64][]int64 // dataset collection id -> dataset ids
	systemsOf            map[int64][]int64 // system collection id -> system ids
	edgesOf              map[int64][]schemas.Processing
	integrityOf          map[int64][]schemas.DataIntegrity

	log *zap.Logger
}

// Assemble indexes the wire graph and runs the full integrity pass against
// the expectation. On success the snapshot owns the wire graph; the caller
// must not mutate it afterwards.
func Assemble(wire *schemas.Graph, expect Expectation, logger *zap.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Snapshot{
		wire: wire,

		collections:        make(map[int64]schemas.Collection, len(wire.Collections)),
		datasetCollections: make(map[int64]schemas.DatasetCollection, len(wire.DatasetCollections)),
		systemCollections:  make(map[int64]schemas.SystemCollection, len(wire.SystemCollections)),
		datasets:           make(map[int64]schemas.Dataset, len(wire.Datasets)),
		systems:            make(map[int64]schemas.System, len(wire.Systems)),

		datasetCollectionsOf: make(map[int64][]int64),
		systemCollectionsOf:  make(map[int64][]int64),
		datasetsOf:           make(map[int64][]int64),
		systemsOf:            make(map[int64][]int64),
		edgesOf:              make(map[int64][]schemas.Processing),
		integrityOf:          make(map[int64][]schemas.DataIntegrity),

		log: logger.Named("graph"),
	}

	if err := s.index(); err != nil {
		return nil, err
	}
	if err := s.verify(expect); err != nil {
		return nil, err
	}

	s.log.Debug("Snapshot assembled and verified",
		zap.Int("collections", len(s.collections)),
		zap.Int("datasets", len(s.datasets)),
		zap.Int("systems", len(s.systems)),
		zap.Int("processings", len(wire.Processings)))
	return s, nil
}

// Wire returns the underlying wire graph. Read-only.
func (s *Snapshot) Wire() *schemas.Graph {
	return s.wire
}

// Seed returns the seed the graph was generated from.
func (s *Snapshot) Seed() int64 {
	return s.wire.Seed
}

// Dataset looks up a dataset by id.
func (s *Snapshot) Dataset(id int64) (schemas.Dataset, bool) {
	d, ok := s.datasets[id]
	return d, ok
}

// System looks up a system by id.
func (s *Snapshot) System(id int64) (schemas.System, bool) {
	sys, ok := s.systems[id]
	return sys, ok
}

// DatasetsOf returns the ids of the datasets owned by a dataset collection,
// in allocation order. Read-only.
func (s *Snapshot) DatasetsOf(datasetCollectionID int64) []int64 {
	return s.datasetsOf[datasetCollectionID]
}

// SystemsOf returns the ids of the systems owned by a system collection, in
// allocation order. Read-only.
func (s *Snapshot) SystemsOf(systemCollectionID int64) []int64 {
	return s.systemsOf[systemCollectionID]
}

// EdgesOf returns the processing edges sourced at a system, in allocation
// order. Read-only.
func (s *Snapshot) EdgesOf(systemID int64) []schemas.Processing {
	return s.edgesOf[systemID]
}

// Counts returns entity totals by kind.
func (s *Snapshot) Counts() map[string]int {
	return s.wire.Counts()
}

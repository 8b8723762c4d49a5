package graph

import (
	"fmt"

	"github.com/xkilldash9x/topoforge/api/schemas"
)

// index builds the id and ownership indexes, rejecting duplicate ids and
// dangling foreign keys as it goes. Every entity is created exactly once by
// the generator, so a duplicate id is as much a defect as a missing parent.
func (s *Snapshot) index() error {
	for _, c := range s.wire.Collections {
		if _, dup := s.collections[c.ID]; dup {
			return fmt.Errorf("duplicate collection id %d", c.ID)
		}
		s.collections[c.ID] = c
	}

	for _, dc := range s.wire.DatasetCollections {
		if _, dup := s.datasetCollections[dc.ID]; dup {
			return fmt.Errorf("duplicate dataset collection id %d", dc.ID)
		}
		if _, ok := s.collections[dc.CollectionID]; !ok {
			return fmt.Errorf("dataset collection %d references missing collection %d", dc.ID, dc.CollectionID)
		}
		s.datasetCollections[dc.ID] = dc
		s.datasetCollectionsOf[dc.CollectionID] = append(s.datasetCollectionsOf[dc.CollectionID], dc.ID)
	}

	for _, sc := range s.wire.SystemCollections {
		if _, dup := s.systemCollections[sc.ID]; dup {
			return fmt.Errorf("duplicate system collection id %d", sc.ID)
		}
		if _, ok := s.collections[sc.CollectionID]; !ok {
			return fmt.Errorf("system collection %d references missing collection %d", sc.ID, sc.CollectionID)
		}
		s.systemCollections[sc.ID] = sc
		s.systemCollectionsOf[sc.CollectionID] = append(s.systemCollectionsOf[sc.CollectionID], sc.ID)
	}

	for _, d := range s.wire.Datasets {
		if _, dup := s.datasets[d.ID]; dup {
			return fmt.Errorf("duplicate dataset id %d", d.ID)
		}
		if _, ok := s.datasetCollections[d.DatasetCollectionID]; !ok {
			return fmt.Errorf("dataset %d references missing dataset collection %d", d.ID, d.DatasetCollectionID)
		}
		s.datasets[d.ID] = d
		s.datasetsOf[d.DatasetCollectionID] = append(s.datasetsOf[d.DatasetCollectionID], d.ID)
	}

	for _, sys := range s.wire.Systems {
		if _, dup := s.systems[sys.ID]; dup {
			return fmt.Errorf("duplicate system id %d", sys.ID)
		}
		if _, ok := s.systemCollections[sys.SystemCollectionID]; !ok {
			return fmt.Errorf("system %d references missing system collection %d", sys.ID, sys.SystemCollectionID)
		}
		s.systems[sys.ID] = sys
		s.systemsOf[sys.SystemCollectionID] = append(s.systemsOf[sys.SystemCollectionID], sys.ID)
	}

	seenEdges := make(map[int64]bool, len(s.wire.Processings))
	for _, p := range s.wire.Processings {
		if seenEdges[p.ProcessingID] {
			return fmt.Errorf("duplicate processing id %d", p.ProcessingID)
		}
		seenEdges[p.ProcessingID] = true
		if _, ok := s.systems[p.SystemID]; !ok {
			return fmt.Errorf("processing %d references missing system %d", p.ProcessingID, p.SystemID)
		}
		if _, ok := s.datasets[p.DatasetID]; !ok {
			return fmt.Errorf("processing %d references missing dataset %d", p.ProcessingID, p.DatasetID)
		}
		s.edgesOf[p.SystemID] = append(s.edgesOf[p.SystemID], p)
	}

	seenIntegrity := make(map[int64]bool, len(s.wire.DataIntegrities))
	for _, di := range s.wire.DataIntegrities {
		if seenIntegrity[di.ID] {
			return fmt.Errorf("duplicate data integrity id %d", di.ID)
		}
		seenIntegrity[di.ID] = true
		if _, ok := s.datasetCollections[di.DatasetCollectionID]; !ok {
			return fmt.Errorf("data integrity %d references missing dataset collection %d", di.ID, di.DatasetCollectionID)
		}
		s.integrityOf[di.DatasetCollectionID] = append(s.integrityOf[di.DatasetCollectionID], di)
	}

	return nil
}

// verify runs the integrity pass: exact population totals, group-sum
// consistency, closed attribute domains, numeric bounds, and per-system
// per-direction edge counts. Foreign keys and id uniqueness were already
// enforced during indexing.
func (s *Snapshot) verify(expect Expectation) error {
	if err := s.verifyTotals(expect); err != nil {
		return err
	}
	if err := s.verifyGroupSums(); err != nil {
		return err
	}
	if err := s.verifyDomains(); err != nil {
		return err
	}
	if err := s.verifyBounds(expect); err != nil {
		return err
	}
	return s.verifyFanOut(expect.SystemFanOut)
}

func (s *Snapshot) verifyTotals(expect Expectation) error {
	checks := []struct {
		kind string
		got  int
		want int
	}{
		{"collections", len(s.wire.Collections), expect.Collections},
		{"dataset collections", len(s.wire.DatasetCollections), expect.DatasetCollections},
		{"system collections", len(s.wire.SystemCollections), expect.SystemCollections},
		{"datasets", len(s.wire.Datasets), expect.Datasets},
		{"systems", len(s.wire.Systems), expect.Systems},
		{"processing edges", len(s.wire.Processings), expect.Processings},
		{"data integrity records", len(s.wire.DataIntegrities), expect.DataIntegrities},
	}
	for _, c := range checks {
		if c.got != c.want {
			return fmt.Errorf("generated %d %s, configuration demands exactly %d", c.got, c.kind, c.want)
		}
	}
	return nil
}

// verifyGroupSums checks that the per-group ownership totals add back up to
// the leaf populations, and that every dataset collection owns exactly one
// data integrity record.
func (s *Snapshot) verifyGroupSums() error {
	var datasetSum int
	for _, dc := range s.wire.DatasetCollections {
		datasetSum += len(s.datasetsOf[dc.ID])
	}
	if datasetSum != len(s.wire.Datasets) {
		return fmt.Errorf("dataset collections own %d datasets in total, graph has %d", datasetSum, len(s.wire.Datasets))
	}

	var systemSum int
	for _, sc := range s.wire.SystemCollections {
		systemSum += len(s.systemsOf[sc.ID])
	}
	if systemSum != len(s.wire.Systems) {
		return fmt.Errorf("system collections own %d systems in total, graph has %d", systemSum, len(s.wire.Systems))
	}

	for _, dc := range s.wire.DatasetCollections {
		if n := len(s.integrityOf[dc.ID]); n != 1 {
			return fmt.Errorf("dataset collection %d owns %d data integrity records, want exactly 1", dc.ID, n)
		}
	}
	return nil
}

func (s *Snapshot) verifyDomains() error {
	for _, d := range s.wire.Datasets {
		if !d.Env.Valid() {
			return fmt.Errorf("dataset %d carries out-of-domain env %q", d.ID, d.Env)
		}
	}
	for _, sys := range s.wire.Systems {
		if !sys.Env.Valid() {
			return fmt.Errorf("system %d carries out-of-domain env %q", sys.ID, sys.Env)
		}
		if !sys.Criticality.Valid() {
			return fmt.Errorf("system %d carries out-of-domain criticality %q", sys.ID, sys.Criticality)
		}
	}
	for _, p := range s.wire.Processings {
		if !p.Impact.Valid() {
			return fmt.Errorf("processing %d carries out-of-domain impact %q", p.ProcessingID, p.Impact)
		}
		if !p.Freshness.Valid() {
			return fmt.Errorf("processing %d carries out-of-domain freshness %q", p.ProcessingID, p.Freshness)
		}
	}
	return nil
}

func (s *Snapshot) verifyBounds(expect Expectation) error {
	for _, d := range s.wire.Datasets {
		if !expect.SLOBounds.Contains(d.SLOSeconds) {
			return fmt.Errorf("dataset %d slo %ds outside [%d, %d]", d.ID, d.SLOSeconds, expect.SLOBounds.Min, expect.SLOBounds.Max)
		}
	}
	for _, di := range s.wire.DataIntegrities {
		if !expect.RestorationBounds.Contains(di.RestorationSeconds) {
			return fmt.Errorf("data integrity %d restoration %ds outside [%d, %d]", di.ID, di.RestorationSeconds, expect.RestorationBounds.Min, expect.RestorationBounds.Max)
		}
		if !expect.RegenerationBounds.Contains(di.RegenerationSeconds) {
			return fmt.Errorf("data integrity %d regeneration %ds outside [%d, %d]", di.ID, di.RegenerationSeconds, expect.RegenerationBounds.Min, expect.RegenerationBounds.Max)
		}
		if !expect.ReconstructionBounds.Contains(di.ReconstructionSeconds) {
			return fmt.Errorf("data integrity %d reconstruction %ds outside [%d, %d]", di.ID, di.ReconstructionSeconds, expect.ReconstructionBounds.Min, expect.ReconstructionBounds.Max)
		}
	}
	return nil
}

// verifyFanOut checks that every system carries exactly the per-direction
// edge counts sampled for it during system generation.
func (s *Snapshot) verifyFanOut(expected map[int64]FanOut) error {
	for _, sys := range s.wire.Systems {
		want, ok := expected[sys.ID]
		if !ok {
			return fmt.Errorf("system %d has no sampled fan-out on record", sys.ID)
		}
		var in, out int
		for _, p := range s.edgesOf[sys.ID] {
			if p.Inputs {
				in++
			} else {
				out++
			}
		}
		if in != want.Inputs {
			return fmt.Errorf("system %d has %d input edges, sampled count was %d", sys.ID, in, want.Inputs)
		}
		if out != want.Outputs {
			return fmt.Errorf("system %d has %d output edges, sampled count was %d", sys.ID, out, want.Outputs)
		}
	}
	return nil
}

// CheckReferences validates a wire graph structurally: unique ids and
// resolving foreign keys. Used when loading serialized graphs back in,
// where no generation-time expectation exists.
func CheckReferences(wire *schemas.Graph) error {
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
	}
	return s.index()
}

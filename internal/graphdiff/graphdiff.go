// Package graphdiff compares two serialized graphs semantically: entity by
// entity, field by field, keyed by id rather than by position. Two graphs
// generated from the same configuration and seed must compare equivalent;
// the first difference found is reported in a form a human can act on.
package graphdiff

import (
	"fmt"
	"slices"

	"github.com/xkilldash9x/topoforge/api/schemas"
)

// Result holds the outcome of a comparison.
type Result struct {
	// Equivalent indicates the graphs carry identical entity populations.
	Equivalent bool
	// Diff describes the first difference when Equivalent is false.
	Diff string
}

// Compare performs the semantic comparison. Entity order inside each
// sequence does not matter; ids do.
func Compare(a, b *schemas.Graph) *Result {
	if a.Seed != b.Seed {
		return differs("seed %d vs %d", a.Seed, b.Seed)
	}

	if r := compareEntities("collection", a.Collections, b.Collections,
		func(c schemas.Collection) int64 { return c.ID }); r != nil {
		return r
	}
	if r := compareEntities("dataset collection", a.DatasetCollections, b.DatasetCollections,
		func(dc schemas.DatasetCollection) int64 { return dc.ID }); r != nil {
		return r
	}
	if r := compareEntities("system collection", a.SystemCollections, b.SystemCollections,
		func(sc schemas.SystemCollection) int64 { return sc.ID }); r != nil {
		return r
	}
	if r := compareEntities("dataset", a.Datasets, b.Datasets,
		func(d schemas.Dataset) int64 { return d.ID }); r != nil {
		return r
	}
	if r := compareEntities("system", a.Systems, b.Systems,
		func(s schemas.System) int64 { return s.ID }); r != nil {
		return r
	}
	if r := compareEntities("processing", a.Processings, b.Processings,
		func(p schemas.Processing) int64 { return p.ProcessingID }); r != nil {
		return r
	}
	if r := compareEntities("data integrity", a.DataIntegrities, b.DataIntegrities,
		func(di schemas.DataIntegrity) int64 { return di.ID }); r != nil {
		return r
	}
	return &Result{Equivalent: true}
}

// compareEntities checks one entity sequence: same size, same id set, and
// field-for-field equality per id. Returns nil when the sequences match.
func compareEntities[E comparable](kind string, as, bs []E, id func(E) int64) *Result {
	if len(as) != len(bs) {
		return differs("graph A has %d %s entities, graph B has %d", len(as), kind, len(bs))
	}

	as = sortByID(as, id)
	bs = sortByID(bs, id)
	for i := range as {
		idA, idB := id(as[i]), id(bs[i])
		if idA != idB {
			return differs("%s id %d exists only in graph A, id %d only in graph B", kind, idA, idB)
		}
		if as[i] != bs[i] {
			return differs("%s %d differs: %+v vs %+v", kind, idA, as[i], bs[i])
		}
	}
	return nil
}

func sortByID[E any](entities []E, id func(E) int64) []E {
	sorted := slices.Clone(entities)
	slices.SortFunc(sorted, func(x, y E) int {
		switch {
		case id(x) < id(y):
			return -1
		case id(x) > id(y):
			return 1
		}
		return 0
	})
	return sorted
}

func differs(format string, args ...any) *Result {
	return &Result{Diff: fmt.Sprintf(format, args...)}
}

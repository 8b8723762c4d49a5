// Package stats extracts the empirical shape of a generated graph: entity
// counts, children-per-group distributions, per-direction fan-out histograms
// and enum frequency tables. Comparing a report against the configured
// distributions is how an operator checks that a population converged.
package stats

import (
	"encoding/json"
	"fmt"

	"github.com/xkilldash9x/topoforge/api/schemas"
)

// Histogram summarizes one observed integer-valued distribution.
type Histogram struct {
	Counts map[int]int `json:"counts"`
	Min    int         `json:"min"`
	Max    int         `json:"max"`
	Mean   float64     `json:"mean"`
}

// NumericSummary summarizes one observed ranged attribute.
type NumericSummary struct {
	Min  int64   `json:"min"`
	Max  int64   `json:"max"`
	Mean float64 `json:"mean"`
}

// Report is the full empirical profile of one graph.
type Report struct {
	Seed   int64          `json:"seed"`
	Counts map[string]int `json:"counts"`

	DatasetCollectionsPerCollection Histogram `json:"dataset_collections_per_collection"`
	SystemCollectionsPerCollection  Histogram `json:"system_collections_per_collection"`
	DatasetsPerCollection           Histogram `json:"datasets_per_collection"`
	SystemsPerCollection            Histogram `json:"systems_per_collection"`

	SystemInputs  Histogram `json:"system_inputs"`
	SystemOutputs Histogram `json:"system_outputs"`

	DatasetEnv        map[string]int `json:"dataset_env"`
	SystemEnv         map[string]int `json:"system_env"`
	SystemCriticality map[string]int `json:"system_criticality"`
	EdgeImpact        map[string]int `json:"edge_impact"`
	EdgeFreshness     map[string]int `json:"edge_freshness"`

	VolatileCollections int `json:"volatile_collections"`

	DatasetSLO     NumericSummary `json:"dataset_slo_seconds"`
	Restoration    NumericSummary `json:"restoration_seconds"`
	Regeneration   NumericSummary `json:"regeneration_seconds"`
	Reconstruction NumericSummary `json:"reconstruction_seconds"`
}

// Extract profiles a graph. The graph is read-only; extraction never fails on
// a structurally valid graph, so callers validate references before calling.
func Extract(g *schemas.Graph) *Report {
	r := &Report{
		Seed:   g.Seed,
		Counts: g.Counts(),

		DatasetEnv:        make(map[string]int),
		SystemEnv:         make(map[string]int),
		SystemCriticality: make(map[string]int),
		EdgeImpact:        make(map[string]int),
		EdgeFreshness:     make(map[string]int),
	}

	// Children-per-group: count ownership edges, keeping zero-child groups in
	// the histogram rather than letting them vanish.
	dcPerC := make(map[int64]int, len(g.Collections))
	scPerC := make(map[int64]int, len(g.Collections))
	for _, c := range g.Collections {
		dcPerC[c.ID], scPerC[c.ID] = 0, 0
	}
	for _, dc := range g.DatasetCollections {
		dcPerC[dc.CollectionID]++
	}
	for _, sc := range g.SystemCollections {
		scPerC[sc.CollectionID]++
	}

	dPerDC := make(map[int64]int, len(g.DatasetCollections))
	for _, dc := range g.DatasetCollections {
		dPerDC[dc.ID] = 0
	}
	for _, d := range g.Datasets {
		dPerDC[d.DatasetCollectionID]++
	}

	sPerSC := make(map[int64]int, len(g.SystemCollections))
	for _, sc := range g.SystemCollections {
		sPerSC[sc.ID] = 0
	}
	for _, s := range g.Systems {
		sPerSC[s.SystemCollectionID]++
	}

	r.DatasetCollectionsPerCollection = histogram(values(dcPerC))
	r.SystemCollectionsPerCollection = histogram(values(scPerC))
	r.DatasetsPerCollection = histogram(values(dPerDC))
	r.SystemsPerCollection = histogram(values(sPerSC))

	// Per-system per-direction fan-out.
	inputs := make(map[int64]int, len(g.Systems))
	outputs := make(map[int64]int, len(g.Systems))
	for _, s := range g.Systems {
		inputs[s.ID], outputs[s.ID] = 0, 0
	}
	for _, p := range g.Processings {
		if p.Inputs {
			inputs[p.SystemID]++
		} else {
			outputs[p.SystemID]++
		}
		r.EdgeImpact[string(p.Impact)]++
		r.EdgeFreshness[string(p.Freshness)]++
	}
	r.SystemInputs = histogram(values(inputs))
	r.SystemOutputs = histogram(values(outputs))

	var slos []int64
	for _, d := range g.Datasets {
		r.DatasetEnv[string(d.Env)]++
		slos = append(slos, d.SLOSeconds)
	}
	for _, s := range g.Systems {
		r.SystemEnv[string(s.Env)]++
		r.SystemCriticality[string(s.Criticality)]++
	}

	var restoration, regeneration, reconstruction []int64
	for _, di := range g.DataIntegrities {
		if di.Volatile {
			r.VolatileCollections++
		}
		restoration = append(restoration, di.RestorationSeconds)
		regeneration = append(regeneration, di.RegenerationSeconds)
		reconstruction = append(reconstruction, di.ReconstructionSeconds)
	}

	r.DatasetSLO = summarize(slos)
	r.Restoration = summarize(restoration)
	r.Regeneration = summarize(regeneration)
	r.Reconstruction = summarize(reconstruction)
	return r
}

// ToJSON renders the report as indented JSON for stdout.
func (r *Report) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}
	return append(data, '\n'), nil
}

func values(m map[int64]int) []int {
	out := make([]int, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func histogram(observed []int) Histogram {
	h := Histogram{Counts: make(map[int]int, len(observed))}
	if len(observed) == 0 {
		return h
	}
	h.Min, h.Max = observed[0], observed[0]
	var sum int
	for _, v := range observed {
		h.Counts[v]++
		sum += v
		if v < h.Min {
			h.Min = v
		}
		if v > h.Max {
			h.Max = v
		}
	}
	h.Mean = float64(sum) / float64(len(observed))
	return h
}

func summarize(observed []int64) NumericSummary {
	if len(observed) == 0 {
		return NumericSummary{}
	}
	s := NumericSummary{Min: observed[0], Max: observed[0]}
	var sum float64
	for _, v := range observed {
		sum += float64(v)
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(len(observed))
	return s
}

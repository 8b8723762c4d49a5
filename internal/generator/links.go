package generator

import (
	"fmt"
	"math/rand"

	"github.com/xkilldash9x/topoforge/api/schemas"
	"github.com/xkilldash9x/topoforge/internal/distribution"
)

// ProcessingLinkGenerator materializes the processing edges between systems
// and datasets. Each system was generated with a sampled input count and
// output count; this generator turns those counts into concrete edges, each
// pointing at a uniformly chosen dataset. A dataset may be referenced by any
// number of edges, including several from the same system.
type ProcessingLinkGenerator struct {
	alloc     *Allocator
	impact    *distribution.Weighted[string]
	freshness *distribution.Weighted[string]
}

func NewProcessingLinkGenerator(alloc *Allocator, impact, freshness *distribution.Weighted[string]) *ProcessingLinkGenerator {
	return &ProcessingLinkGenerator{alloc: alloc, impact: impact, freshness: freshness}
}

// Generate walks systems in order, emitting each system's input edges and
// then its output edges. Per edge the draw order is fixed: dataset choice,
// impact, freshness. Impact and freshness describe the consequence of that
// dataset being late or unavailable for that system; they are sampled
// independently per edge, not derived from either endpoint.
func (g *ProcessingLinkGenerator) Generate(rng *rand.Rand, systems []SystemPlan, datasets []schemas.Dataset) ([]schemas.Processing, error) {
	var edgeCount int
	for _, s := range systems {
		edgeCount += s.Inputs + s.Outputs
	}
	if edgeCount > 0 && len(datasets) == 0 {
		return nil, fmt.Errorf("cannot materialize %d processing edges: no datasets exist", edgeCount)
	}

	edges := make([]schemas.Processing, 0, edgeCount)
	for _, s := range systems {
		for j := 0; j < s.Inputs; j++ {
			edges = append(edges, g.edge(rng, s.System.ID, datasets, true))
		}
		for j := 0; j < s.Outputs; j++ {
			edges = append(edges, g.edge(rng, s.System.ID, datasets, false))
		}
	}
	return edges, nil
}

func (g *ProcessingLinkGenerator) edge(rng *rand.Rand, systemID int64, datasets []schemas.Dataset, inputs bool) schemas.Processing {
	dataset := datasets[rng.Intn(len(datasets))]
	impact := schemas.Impact(g.impact.Sample(rng))
	freshness := schemas.Freshness(g.freshness.Sample(rng))
	return schemas.Processing{
		ProcessingID: g.alloc.Next(KindProcessing),
		SystemID:     systemID,
		DatasetID:    dataset.ID,
		Impact:       impact,
		Freshness:    freshness,
		Inputs:       inputs,
	}
}

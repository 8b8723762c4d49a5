package generator

import (
	"math/rand"

	"github.com/xkilldash9x/topoforge/api/schemas"
	"github.com/xkilldash9x/topoforge/internal/distribution"
)

// DataIntegrityGenerator produces exactly one recovery-characteristics
// record per dataset collection: a sampled volatility flag plus three
// independently sampled recovery times. The three ranges deliberately carry
// no cross-field constraint; restoration may exceed regeneration.
type DataIntegrityGenerator struct {
	alloc          *Allocator
	volatility     *distribution.Binary
	restoration    distribution.Range
	regeneration   distribution.Range
	reconstruction distribution.Range
}

func NewDataIntegrityGenerator(alloc *Allocator, volatility *distribution.Binary, restoration, regeneration, reconstruction distribution.Range) *DataIntegrityGenerator {
	return &DataIntegrityGenerator{
		alloc:          alloc,
		volatility:     volatility,
		restoration:    restoration,
		regeneration:   regeneration,
		reconstruction: reconstruction,
	}
}

// Generate walks dataset collections in order. Per record the draw order is
// fixed: volatility, restoration, regeneration, reconstruction.
func (g *DataIntegrityGenerator) Generate(rng *rand.Rand, groups []schemas.DatasetCollection) []schemas.DataIntegrity {
	records := make([]schemas.DataIntegrity, 0, len(groups))
	for _, group := range groups {
		volatile := g.volatility.Sample(rng)
		restoration := g.restoration.Sample(rng)
		regeneration := g.regeneration.Sample(rng)
		reconstruction := g.reconstruction.Sample(rng)
		records = append(records, schemas.DataIntegrity{
			ID:                    g.alloc.Next(KindDataIntegrity),
			DatasetCollectionID:   group.ID,
			Volatile:              volatile,
			RestorationSeconds:    restoration,
			RegenerationSeconds:   regeneration,
			ReconstructionSeconds: reconstruction,
		})
	}
	return records
}

package generator

import (
	"fmt"
	"math/rand"

	"github.com/xkilldash9x/topoforge/api/schemas"
	"github.com/xkilldash9x/topoforge/internal/distribution"
)

// Leaf generators create the datasets and systems. They reconcile the group
// plans' sampled child counts against the configured totals, then create
// leaves group by group, each leaf independently sampling its own scalar
// attributes.

// DatasetGenerator produces the dataset population.
type DatasetGenerator struct {
	alloc *Allocator
	env   *distribution.Weighted[string]
	slo   distribution.Range
}

func NewDatasetGenerator(alloc *Allocator, env *distribution.Weighted[string], slo distribution.Range) *DatasetGenerator {
	return &DatasetGenerator{alloc: alloc, env: env, slo: slo}
}

// Generate creates exactly total datasets distributed across the plan's
// groups in proportion to the sampled child counts.
func (g *DatasetGenerator) Generate(rng *rand.Rand, plan *DatasetCollectionPlan, total int) ([]schemas.Dataset, error) {
	counts, err := reconcile(plan.ChildCounts, total)
	if err != nil {
		return nil, fmt.Errorf("failed to allot datasets: %w", err)
	}

	datasets := make([]schemas.Dataset, 0, total)
	for gi, group := range plan.Groups {
		for j := 0; j < counts[gi]; j++ {
			id := g.alloc.Next(KindDataset)
			// Fixed draw order per dataset: env, then SLO.
			env := schemas.Env(g.env.Sample(rng))
			slo := g.slo.Sample(rng)
			datasets = append(datasets, schemas.Dataset{
				ID:                  id,
				DatasetCollectionID: group.ID,
				Name:                entityName("dataset", id),
				Description:         entityDescription("dataset", id),
				RegexGrouping:       entityRegex("dataset", id),
				Env:                 env,
				SLOSeconds:          slo,
			})
		}
	}
	return datasets, nil
}

// SystemPlan couples a generated system with its sampled input/output edge
// counts. The counts are drawn here, during system generation, and consumed
// later by the processing-edge phase; they are not attributes of the wire
// entity itself.
type SystemPlan struct {
	System  schemas.System
	Inputs  int
	Outputs int
}

// SystemGenerator produces the system population.
type SystemGenerator struct {
	alloc       *Allocator
	env         *distribution.Weighted[string]
	criticality *distribution.Weighted[string]
	inputs      *distribution.Weighted[int]
	outputs     *distribution.Weighted[int]
}

func NewSystemGenerator(alloc *Allocator, env, criticality *distribution.Weighted[string], inputs, outputs *distribution.Weighted[int]) *SystemGenerator {
	return &SystemGenerator{alloc: alloc, env: env, criticality: criticality, inputs: inputs, outputs: outputs}
}

// Generate creates exactly total systems distributed across the plan's
// groups. Per system the draw order is fixed: env, criticality, input count,
// output count.
func (g *SystemGenerator) Generate(rng *rand.Rand, plan *SystemCollectionPlan, total int) ([]SystemPlan, error) {
	counts, err := reconcile(plan.ChildCounts, total)
	if err != nil {
		return nil, fmt.Errorf("failed to allot systems: %w", err)
	}

	systems := make([]SystemPlan, 0, total)
	for gi, group := range plan.Groups {
		for j := 0; j < counts[gi]; j++ {
			id := g.alloc.Next(KindSystem)
			env := schemas.Env(g.env.Sample(rng))
			criticality := schemas.Criticality(g.criticality.Sample(rng))
			inputs := g.inputs.Sample(rng)
			outputs := g.outputs.Sample(rng)
			systems = append(systems, SystemPlan{
				System: schemas.System{
					ID:                 id,
					SystemCollectionID: group.ID,
					Name:               entityName("system", id),
					Description:        entityDescription("system", id),
					RegexGrouping:      entityRegex("system", id),
					Env:                env,
					Criticality:        criticality,
				},
				Inputs:  inputs,
				Outputs: outputs,
			})
		}
	}
	return systems, nil
}

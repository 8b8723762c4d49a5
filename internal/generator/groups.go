package generator

import (
	"fmt"
	"math/rand"

	"github.com/xkilldash9x/topoforge/api/schemas"
	"github.com/xkilldash9x/topoforge/internal/distribution"
)

// Group generators produce the middle layer of the topology: dataset and
// system collections. Each generator distributes its configured total of
// groups across the parent collections (sampling a per-collection count and
// reconciling it against the total), and for every group it creates it also
// samples how many leaf children that group will own. The sampled child
// counts are retained on the plan: the leaf generators must partition their
// own totals across exactly these allotments.

// DatasetCollectionPlan is the output of dataset-collection generation: the
// groups themselves plus, per group, the sampled child-dataset count.
type DatasetCollectionPlan struct {
	Groups      []schemas.DatasetCollection
	ChildCounts []int
}

// SystemCollectionPlan mirrors DatasetCollectionPlan for systems.
type SystemCollectionPlan struct {
	Groups      []schemas.SystemCollection
	ChildCounts []int
}

// DatasetCollectionGenerator produces dataset collections.
type DatasetCollectionGenerator struct {
	alloc         *Allocator
	perCollection *distribution.Weighted[int]
	children      *distribution.Weighted[int]
}

func NewDatasetCollectionGenerator(alloc *Allocator, perCollection, children *distribution.Weighted[int]) *DatasetCollectionGenerator {
	return &DatasetCollectionGenerator{alloc: alloc, perCollection: perCollection, children: children}
}

// Generate creates exactly total dataset collections attached to the given
// collections, in collection order.
func (g *DatasetCollectionGenerator) Generate(rng *rand.Rand, collections []schemas.Collection, total int) (*DatasetCollectionPlan, error) {
	allot, err := sampleAllotments(rng, g.perCollection, len(collections), total)
	if err != nil {
		return nil, fmt.Errorf("failed to allot dataset collections: %w", err)
	}

	plan := &DatasetCollectionPlan{
		Groups:      make([]schemas.DatasetCollection, 0, total),
		ChildCounts: make([]int, 0, total),
	}
	for ci, parent := range collections {
		for j := 0; j < allot[ci]; j++ {
			id := g.alloc.Next(KindDatasetCollection)
			plan.Groups = append(plan.Groups, schemas.DatasetCollection{
				ID:           id,
				CollectionID: parent.ID,
				Name:         entityName("dataset_collection", id),
			})
			plan.ChildCounts = append(plan.ChildCounts, g.sampleChildren(rng))
		}
	}
	return plan, nil
}

// sampleChildren draws the group's child-dataset count; with no dataset
// population configured there is no children histogram and every group owns
// zero.
func (g *DatasetCollectionGenerator) sampleChildren(rng *rand.Rand) int {
	if g.children == nil {
		return 0
	}
	return g.children.Sample(rng)
}

// SystemCollectionGenerator produces system collections.
type SystemCollectionGenerator struct {
	alloc         *Allocator
	perCollection *distribution.Weighted[int]
	children      *distribution.Weighted[int]
}

func NewSystemCollectionGenerator(alloc *Allocator, perCollection, children *distribution.Weighted[int]) *SystemCollectionGenerator {
	return &SystemCollectionGenerator{alloc: alloc, perCollection: perCollection, children: children}
}

// Generate creates exactly total system collections attached to the given
// collections, in collection order.
func (g *SystemCollectionGenerator) Generate(rng *rand.Rand, collections []schemas.Collection, total int) (*SystemCollectionPlan, error) {
	allot, err := sampleAllotments(rng, g.perCollection, len(collections), total)
	if err != nil {
		return nil, fmt.Errorf("failed to allot system collections: %w", err)
	}

	plan := &SystemCollectionPlan{
		Groups:      make([]schemas.SystemCollection, 0, total),
		ChildCounts: make([]int, 0, total),
	}
	for ci, parent := range collections {
		for j := 0; j < allot[ci]; j++ {
			id := g.alloc.Next(KindSystemCollection)
			plan.Groups = append(plan.Groups, schemas.SystemCollection{
				ID:           id,
				CollectionID: parent.ID,
				Name:         entityName("system_collection", id),
			})
			plan.ChildCounts = append(plan.ChildCounts, g.sampleChildren(rng))
		}
	}
	return plan, nil
}

func (g *SystemCollectionGenerator) sampleChildren(rng *rand.Rand) int {
	if g.children == nil {
		return 0
	}
	return g.children.Sample(rng)
}

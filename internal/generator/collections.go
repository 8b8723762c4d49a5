package generator

import "github.com/xkilldash9x/topoforge/api/schemas"

// CollectionGenerator produces the top-level collections that dataset and
// system collections attach to. Collections carry no sampled attributes, so
// generation is pure id allocation plus naming.
type CollectionGenerator struct {
	alloc *Allocator
}

func NewCollectionGenerator(alloc *Allocator) *CollectionGenerator {
	return &CollectionGenerator{alloc: alloc}
}

// Generate creates exactly count collections.
func (g *CollectionGenerator) Generate(count int) []schemas.Collection {
	collections := make([]schemas.Collection, 0, count)
	for i := 0; i < count; i++ {
		id := g.alloc.Next(KindCollection)
		collections = append(collections, schemas.Collection{
			ID:   id,
			Name: entityName("collection", id),
		})
	}
	return collections
}

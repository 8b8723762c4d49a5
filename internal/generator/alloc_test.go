package generator

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocator(t *testing.T) {
	t.Parallel()

	t.Run("should issue contiguous ids from one per kind", func(t *testing.T) {
		t.Parallel()

		alloc := NewAllocator()
		assert.Equal(t, int64(1), alloc.Next(KindDataset))
		assert.Equal(t, int64(2), alloc.Next(KindDataset))
		assert.Equal(t, int64(3), alloc.Next(KindDataset))
		assert.Equal(t, int64(3), alloc.Issued(KindDataset))
	})

	t.Run("should keep counters independent across kinds", func(t *testing.T) {
		t.Parallel()

		alloc := NewAllocator()
		alloc.Next(KindDataset)
		alloc.Next(KindDataset)
		assert.Equal(t, int64(1), alloc.Next(KindSystem))
		assert.Equal(t, int64(1), alloc.Next(KindProcessing))
		assert.Equal(t, int64(2), alloc.Issued(KindDataset))
	})

	t.Run("should keep allocators independent across runs", func(t *testing.T) {
		t.Parallel()

		a := NewAllocator()
		b := NewAllocator()
		a.Next(KindCollection)
		assert.Equal(t, int64(1), b.Next(KindCollection))
	})

	t.Run("should issue unique ids under concurrent allocation", func(t *testing.T) {
		t.Parallel()

		const perWorker = 200
		alloc := NewAllocator()

		var wg sync.WaitGroup
		results := make([][]int64, 4)
		for w := range results {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				ids := make([]int64, perWorker)
				for i := range ids {
					ids[i] = alloc.Next(KindProcessing)
				}
				results[w] = ids
			}(w)
		}
		wg.Wait()

		var all []int64
		for _, ids := range results {
			all = append(all, ids...)
		}
		sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
		for i, id := range all {
			assert.Equal(t, int64(i+1), id, "ids must be unique and gap-free")
		}
	})
}

package generator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/xkilldash9x/topoforge/internal/distribution"
)

// reconcile resolves the tension between two independently configured
// statistics: per-group child counts sampled from a histogram (summing to
// some S) and a configured population total T. When S == T the sampled
// counts stand as-is. Otherwise each group's share is scaled proportionally
// (round(count*T/S)) and the rounding remainder lands on the last group, so
// the total holds exactly while the shape of the per-group distribution is
// preserved.
//
// If absorbing a negative remainder would push the last group below zero,
// the deficit is carried leftward until it is absorbed; counts never go
// negative. When every sampled count is zero there is no shape to preserve
// and the whole total lands on the last group.
func reconcile(sampled []int, total int) ([]int, error) {
	if total < 0 {
		return nil, fmt.Errorf("cannot allot a negative total %d", total)
	}
	if len(sampled) == 0 {
		if total > 0 {
			return nil, fmt.Errorf("cannot allot %d children across zero groups", total)
		}
		return []int{}, nil
	}

	var sum int
	for i, c := range sampled {
		if c < 0 {
			return nil, fmt.Errorf("sampled count %d for group %d is negative", c, i)
		}
		sum += c
	}

	shares := make([]int, len(sampled))
	last := len(shares) - 1

	switch {
	case sum == total:
		copy(shares, sampled)
		return shares, nil
	case sum == 0:
		shares[last] = total
		return shares, nil
	}

	var allotted int
	for i, c := range sampled {
		shares[i] = int(math.Round(float64(c) * float64(total) / float64(sum)))
		allotted += shares[i]
	}
	shares[last] += total - allotted

	// A large negative remainder can overdraw the last group; carry the
	// deficit toward the front until it is absorbed.
	for i := last; i > 0 && shares[i] < 0; i-- {
		shares[i-1] += shares[i]
		shares[i] = 0
	}
	return shares, nil
}

// sampleAllotments draws one child count per group from the histogram and
// reconciles the draws against the configured total. A nil table stands for
// "no children configured" and yields all-zero draws.
func sampleAllotments(rng *rand.Rand, table *distribution.Weighted[int], groups, total int) ([]int, error) {
	sampled := make([]int, groups)
	if table != nil {
		for i := range sampled {
			sampled[i] = table.Sample(rng)
		}
	}
	return reconcile(sampled, total)
}

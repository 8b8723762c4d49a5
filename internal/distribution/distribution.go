// Package distribution implements the sampling tables the generator draws
// from: empirical count histograms, categorical probability maps, and
// inclusive numeric ranges. All tables are built once, up front, from their
// configuration encoding; a malformed encoding fails construction so a bad
// configuration is rejected before any entity is generated.
package distribution

import (
	"cmp"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sort"
)

// probaSumTolerance is how far a categorical map's probabilities may drift
// from 1.0 before the encoding is rejected. Drift inside the window is
// normalized away.
const probaSumTolerance = 0.01

// Weighted is a cumulative-weight sampling table over values of an ordered
// type. Both the empirical histogram (int keys weighted by observed counts)
// and the categorical map (string keys weighted by probabilities) are this
// same structure; only the key type and the weight source differ.
type Weighted[T cmp.Ordered] struct {
	values []T
	cum    []float64
	total  float64
}

// newWeighted builds the table from value:weight pairs. Entries are sorted
// by value so the cumulative layout, and therefore every sample drawn from a
// seeded source, is independent of map iteration order. Zero-weight entries
// are dropped; they have zero probability either way.
func newWeighted[T cmp.Ordered](weights map[T]float64) (*Weighted[T], error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("weighted table has no entries")
	}

	keys := make([]T, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	w := &Weighted[T]{
		values: make([]T, 0, len(keys)),
		cum:    make([]float64, 0, len(keys)),
	}
	for _, k := range keys {
		weight := weights[k]
		if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, fmt.Errorf("weight %v for value %v is not a finite non-negative number", weight, k)
		}
		if weight == 0 {
			continue
		}
		w.total += weight
		w.values = append(w.values, k)
		w.cum = append(w.cum, w.total)
	}
	if w.total <= 0 {
		return nil, fmt.Errorf("weighted table has no positive weights")
	}
	return w, nil
}

// Sample draws one value: a uniform point in [0, total) selects the entry
// whose cumulative range contains it.
func (w *Weighted[T]) Sample(rng *rand.Rand) T {
	x := rng.Float64() * w.total
	i := sort.Search(len(w.cum), func(i int) bool { return w.cum[i] > x })
	if i == len(w.values) {
		// Float rounding can push x to the last boundary; clamp.
		i = len(w.values) - 1
	}
	return w.values[i]
}

// Values returns the sampleable values in ascending order.
func (w *Weighted[T]) Values() []T {
	return slices.Clone(w.values)
}

// Len returns the number of sampleable values.
func (w *Weighted[T]) Len() int {
	return len(w.values)
}

// NewCountTable builds an empirical histogram table: each key is an observed
// count of some related quantity, weighted by how many times it was
// observed. Keys must be non-negative; the histogram need not be dense.
func NewCountTable(counts map[int]int) (*Weighted[int], error) {
	weights := make(map[int]float64, len(counts))
	for k, c := range counts {
		if k < 0 {
			return nil, fmt.Errorf("histogram key %d is negative", k)
		}
		if c < 0 {
			return nil, fmt.Errorf("histogram count %d for key %d is negative", c, k)
		}
		weights[k] = float64(c)
	}
	w, err := newWeighted(weights)
	if err != nil {
		return nil, fmt.Errorf("invalid count histogram: %w", err)
	}
	return w, nil
}

// NewCategorical builds a table over enumerated labels from label:probability
// pairs. The probabilities must sum to 1 within a small tolerance; inside the
// tolerance the weights are used as given (the cumulative scheme normalizes
// implicitly), outside it the encoding is rejected.
func NewCategorical(probs map[string]float64) (*Weighted[string], error) {
	var sum float64
	for label, p := range probs {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("invalid categorical map: probability %v for %q is not a finite non-negative number", p, label)
		}
		sum += p
	}
	if len(probs) == 0 {
		return nil, fmt.Errorf("invalid categorical map: no entries")
	}
	if math.Abs(sum-1) > probaSumTolerance {
		return nil, fmt.Errorf("invalid categorical map: probabilities sum to %.4f, want 1.0 within %.2f", sum, probaSumTolerance)
	}
	w, err := newWeighted(probs)
	if err != nil {
		return nil, fmt.Errorf("invalid categorical map: %w", err)
	}
	return w, nil
}

// NewEnumCounts builds a table over enumerated labels weighted by observed
// occurrence counts rather than probabilities (the environment maps use this
// encoding: counts double as unnormalized pick weights).
func NewEnumCounts(counts map[string]int) (*Weighted[string], error) {
	weights := make(map[string]float64, len(counts))
	for label, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("invalid enum count map: count %d for %q is negative", c, label)
		}
		weights[label] = float64(c)
	}
	w, err := newWeighted(weights)
	if err != nil {
		return nil, fmt.Errorf("invalid enum count map: %w", err)
	}
	return w, nil
}

// Binary samples a boolean from a two-sided probability map keyed 0/1.
type Binary struct {
	table *Weighted[int]
}

// NewBinary builds the volatility-style sampler. Keys other than 0 and 1 are
// rejected; probabilities follow the categorical rules.
func NewBinary(probs map[int]float64) (*Binary, error) {
	var sum float64
	for k, p := range probs {
		if k != 0 && k != 1 {
			return nil, fmt.Errorf("invalid binary map: key %d is not 0 or 1", k)
		}
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("invalid binary map: probability %v for key %d is not a finite non-negative number", p, k)
		}
		sum += p
	}
	if len(probs) == 0 {
		return nil, fmt.Errorf("invalid binary map: no entries")
	}
	if math.Abs(sum-1) > probaSumTolerance {
		return nil, fmt.Errorf("invalid binary map: probabilities sum to %.4f, want 1.0 within %.2f", sum, probaSumTolerance)
	}
	weights := make(map[int]float64, len(probs))
	for k, p := range probs {
		weights[k] = p
	}
	table, err := newWeighted(weights)
	if err != nil {
		return nil, fmt.Errorf("invalid binary map: %w", err)
	}
	return &Binary{table: table}, nil
}

// Sample draws true with the probability configured for key 1.
func (b *Binary) Sample(rng *rand.Rand) bool {
	return b.table.Sample(rng) == 1
}

// Range samples uniform integers from [Min, Max] inclusive.
type Range struct {
	Min int64
	Max int64
}

// NewRange validates the bounds. Min == Max is a valid degenerate range.
func NewRange(min, max int64) (Range, error) {
	if min > max {
		return Range{}, fmt.Errorf("invalid range: min %d exceeds max %d", min, max)
	}
	// The inclusive width max-min+1 must stay representable; a wider range
	// would wrap negative and break sampling.
	if width := max - min + 1; width <= 0 {
		return Range{}, fmt.Errorf("invalid range: [%d, %d] is too wide to sample", min, max)
	}
	return Range{Min: min, Max: max}, nil
}

// Sample draws a uniform value from the inclusive range.
func (r Range) Sample(rng *rand.Rand) int64 {
	return r.Min + rng.Int63n(r.Max-r.Min+1)
}

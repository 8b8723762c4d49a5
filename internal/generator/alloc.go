package generator

import "sync"

// Kind names one id-carrying entity population. Each kind owns an
// independent counter.
type Kind string

const (
	KindCollection        Kind = "collection"
	KindDatasetCollection Kind = "dataset_collection"
	KindSystemCollection  Kind = "system_collection"
	KindDataset           Kind = "dataset"
	KindSystem            Kind = "system"
	KindProcessing        Kind = "processing"
	KindDataIntegrity     Kind = "data_integrity"
)

// Allocator issues unique, monotonically increasing identifiers per entity
// kind, starting at 1. It is an explicit per-run object rather than package
// state so parallel runs (and parallel tests) cannot interfere with each
// other. Safe for concurrent use; the parallel pipeline phases allocate
// different kinds concurrently.
type Allocator struct {
	mu   sync.Mutex
	next map[Kind]int64
}

// NewAllocator creates an allocator with all counters at their base.
func NewAllocator() *Allocator {
	return &Allocator{next: make(map[Kind]int64)}
}

// Next returns the next identifier for the kind. Ids are contiguous from 1
// in allocation order and are never reused.
func (a *Allocator) Next(kind Kind) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next[kind]++
	return a.next[kind]
}

// Issued reports how many ids have been handed out for the kind.
func (a *Allocator) Issued(kind Kind) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next[kind]
}

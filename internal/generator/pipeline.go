package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/topoforge/api/schemas"
	"github.com/xkilldash9x/topoforge/internal/config"
	"github.com/xkilldash9x/topoforge/internal/graph"
)

// Pipeline runs one graph generation: collections, then the two grouping
// layers, then the two leaf populations, then edges and integrity records,
// then assembly and verification. Layers with no dependency on each other
// run concurrently; a WaitGroup barrier separates the phases because each
// phase consumes what the previous one produced.
//
// Determinism: the run seed feeds a master stream whose first draws become
// the sub-seeds of six private phase streams, handed out in a fixed order.
// Each concurrent phase half owns its stream exclusively, and each entity
// kind owns its id counter exclusively, so the parallel halves produce
// bit-for-bit the same graph as a sequential run would.
type Pipeline struct {
	cfg    *config.Config
	tables *Tables
	seed   int64
	logger *zap.Logger
}

// New builds every distribution table up front; a malformed configuration
// fails here, before any entity is created. A zero seed asks for a
// wall-clock-derived one, which Run logs so the run stays reproducible.
func New(cfg *config.Config, seed int64, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tables, err := BuildTables(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build distribution tables: %w", err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Pipeline{
		cfg:    cfg,
		tables: tables,
		seed:   seed,
		logger: logger.With(zap.String("component", "pipeline"), zap.Int64("seed", seed)),
	}, nil
}

// Seed returns the seed the pipeline will generate with.
func (p *Pipeline) Seed() int64 {
	return p.seed
}

// randStreams holds the private per-phase random streams. Allocation order
// of the sub-seeds is part of the wire contract: reordering fields here
// changes every generated graph.
type randStreams struct {
	datasetCollections *rand.Rand
	systemCollections  *rand.Rand
	datasets           *rand.Rand
	systems            *rand.Rand
	processing         *rand.Rand
	integrity          *rand.Rand
}

func deriveStreams(seed int64) *randStreams {
	master := rand.New(rand.NewSource(seed))
	next := func() *rand.Rand {
		return rand.New(rand.NewSource(master.Int63()))
	}

	s := &randStreams{}
	s.datasetCollections = next()
	s.systemCollections = next()
	s.datasets = next()
	s.systems = next()
	s.processing = next()
	s.integrity = next()
	return s
}

// Run generates one complete graph. Each call owns a fresh id allocator, so
// repeated Runs of the same pipeline produce identical snapshots.
func (p *Pipeline) Run(ctx context.Context) (*graph.Snapshot, error) {
	start := time.Now()
	p.logger.Info("Starting graph generation",
		zap.Int("collections", p.cfg.Collection.Count),
		zap.Int("dataset_collections", p.cfg.DatasetCollection.Count),
		zap.Int("system_collections", p.cfg.SystemCollection.Count),
		zap.Int("datasets", p.cfg.Dataset.Count),
		zap.Int("systems", p.cfg.System.Count))

	alloc := NewAllocator()
	streams := deriveStreams(p.seed)

	// Phase 1: collections.
	phaseStart := time.Now()
	collections := NewCollectionGenerator(alloc).Generate(p.cfg.Collection.Count)
	p.logger.Debug("Generated collections", zap.Int("count", len(collections)), zap.Duration("took", time.Since(phaseStart)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: the two grouping layers, concurrently.
	phaseStart = time.Now()
	var (
		wg     sync.WaitGroup
		dcPlan *DatasetCollectionPlan
		scPlan *SystemCollectionPlan
		dcErr  error
		scErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		gen := NewDatasetCollectionGenerator(alloc, p.tables.DatasetCollectionsPerCollection, p.tables.DatasetsPerCollection)
		dcPlan, dcErr = gen.Generate(streams.datasetCollections, collections, p.cfg.DatasetCollection.Count)
	}()
	go func() {
		defer wg.Done()
		gen := NewSystemCollectionGenerator(alloc, p.tables.SystemCollectionsPerCollection, p.tables.SystemsPerCollection)
		scPlan, scErr = gen.Generate(streams.systemCollections, collections, p.cfg.SystemCollection.Count)
	}()
	wg.Wait()
	if dcErr != nil {
		return nil, fmt.Errorf("failed to generate dataset collections: %w", dcErr)
	}
	if scErr != nil {
		return nil, fmt.Errorf("failed to generate system collections: %w", scErr)
	}
	p.logger.Debug("Generated grouping layers",
		zap.Int("dataset_collections", len(dcPlan.Groups)),
		zap.Int("system_collections", len(scPlan.Groups)),
		zap.Duration("took", time.Since(phaseStart)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 3: the two leaf populations, concurrently.
	phaseStart = time.Now()
	var (
		datasets    []schemas.Dataset
		systemPlans []SystemPlan
		dErr        error
		sErr        error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		gen := NewDatasetGenerator(alloc, p.tables.DatasetEnv, p.tables.DatasetSLO)
		datasets, dErr = gen.Generate(streams.datasets, dcPlan, p.cfg.Dataset.Count)
	}()
	go func() {
		defer wg.Done()
		gen := NewSystemGenerator(alloc, p.tables.SystemEnv, p.tables.SystemCriticality, p.tables.SystemInputs, p.tables.SystemOutputs)
		systemPlans, sErr = gen.Generate(streams.systems, scPlan, p.cfg.System.Count)
	}()
	wg.Wait()
	if dErr != nil {
		return nil, fmt.Errorf("failed to generate datasets: %w", dErr)
	}
	if sErr != nil {
		return nil, fmt.Errorf("failed to generate systems: %w", sErr)
	}
	p.logger.Debug("Generated leaf populations",
		zap.Int("datasets", len(datasets)),
		zap.Int("systems", len(systemPlans)),
		zap.Duration("took", time.Since(phaseStart)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 4: processing edges and integrity records, concurrently.
	phaseStart = time.Now()
	var (
		edges       []schemas.Processing
		integrities []schemas.DataIntegrity
		eErr        error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		gen := NewProcessingLinkGenerator(alloc, p.tables.Impact, p.tables.Freshness)
		edges, eErr = gen.Generate(streams.processing, systemPlans, datasets)
	}()
	go func() {
		defer wg.Done()
		gen := NewDataIntegrityGenerator(alloc, p.tables.Volatility, p.tables.Restoration, p.tables.Regeneration, p.tables.Reconstruction)
		integrities = gen.Generate(streams.integrity, dcPlan.Groups)
	}()
	wg.Wait()
	if eErr != nil {
		return nil, fmt.Errorf("failed to generate processing edges: %w", eErr)
	}
	p.logger.Debug("Generated edges and integrity records",
		zap.Int("processings", len(edges)),
		zap.Int("data_integrities", len(integrities)),
		zap.Duration("took", time.Since(phaseStart)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 5: assemble and verify.
	systems := make([]schemas.System, 0, len(systemPlans))
	fanOut := make(map[int64]graph.FanOut, len(systemPlans))
	var edgeTotal int
	for _, plan := range systemPlans {
		systems = append(systems, plan.System)
		fanOut[plan.System.ID] = graph.FanOut{Inputs: plan.Inputs, Outputs: plan.Outputs}
		edgeTotal += plan.Inputs + plan.Outputs
	}

	wire := &schemas.Graph{
		Seed:               p.seed,
		Collections:        collections,
		DatasetCollections: dcPlan.Groups,
		SystemCollections:  scPlan.Groups,
		Datasets:           datasets,
		Systems:            systems,
		Processings:        edges,
		DataIntegrities:    integrities,
	}
	expect := graph.Expectation{
		Collections:        p.cfg.Collection.Count,
		DatasetCollections: p.cfg.DatasetCollection.Count,
		SystemCollections:  p.cfg.SystemCollection.Count,
		Datasets:           p.cfg.Dataset.Count,
		Systems:            p.cfg.System.Count,
		Processings:        edgeTotal,
		DataIntegrities:    p.cfg.DatasetCollection.Count,
		SystemFanOut:       fanOut,

		SLOBounds:            graph.Bounds{Min: p.cfg.Dataset.SLORange.Min, Max: p.cfg.Dataset.SLORange.Max},
		RestorationBounds:    graph.Bounds{Min: p.cfg.DataIntegrity.RestorationRange.Min, Max: p.cfg.DataIntegrity.RestorationRange.Max},
		RegenerationBounds:   graph.Bounds{Min: p.cfg.DataIntegrity.RegenerationRange.Min, Max: p.cfg.DataIntegrity.RegenerationRange.Max},
		ReconstructionBounds: graph.Bounds{Min: p.cfg.DataIntegrity.ReconstructionRange.Min, Max: p.cfg.DataIntegrity.ReconstructionRange.Max},
	}

	snapshot, err := graph.Assemble(wire, expect, p.logger)
	if err != nil {
		return nil, fmt.Errorf("generated graph failed verification: %w", err)
	}

	p.logger.Info("Graph generation complete",
		zap.Int("entities", len(collections)+len(dcPlan.Groups)+len(scPlan.Groups)+len(datasets)+len(systems)+len(integrities)),
		zap.Int("processings", len(edges)),
		zap.Duration("took", time.Since(start)))
	return snapshot, nil
}

package generator

import (
	"fmt"

	"github.com/xkilldash9x/topoforge/api/schemas"
	"github.com/xkilldash9x/topoforge/internal/config"
	"github.com/xkilldash9x/topoforge/internal/distribution"
)

// Tables holds every sampling table a run draws from, built once from
// configuration before any entity is created. A malformed encoding, an
// out-of-domain enum label, or an infeasible combination (systems that need
// edges but no datasets to point them at) fails here, never mid-generation.
// Tables for populations sized zero are left nil; their phases do not run.
type Tables struct {
	DatasetCollectionsPerCollection *distribution.Weighted[int]
	SystemCollectionsPerCollection  *distribution.Weighted[int]

	DatasetsPerCollection *distribution.Weighted[int]
	SystemsPerCollection  *distribution.Weighted[int]

	DatasetEnv *distribution.Weighted[string]
	DatasetSLO distribution.Range

	SystemEnv         *distribution.Weighted[string]
	SystemCriticality *distribution.Weighted[string]
	SystemInputs      *distribution.Weighted[int]
	SystemOutputs     *distribution.Weighted[int]

	Impact    *distribution.Weighted[string]
	Freshness *distribution.Weighted[string]

	Volatility     *distribution.Binary
	Restoration    distribution.Range
	Regeneration   distribution.Range
	Reconstruction distribution.Range
}

// BuildTables parses and validates every configured distribution. Errors
// carry the configuration key so an operator can find the offending line.
func BuildTables(cfg *config.Config) (*Tables, error) {
	t := &Tables{}

	if cfg.DatasetCollection.Count > 0 {
		table, err := countTable(cfg.Collection.DatasetCollectionCountMap)
		if err != nil {
			return nil, fmt.Errorf("collection.dataset_collection_count_map: %w", err)
		}
		t.DatasetCollectionsPerCollection = table
	}
	if cfg.SystemCollection.Count > 0 {
		table, err := countTable(cfg.Collection.SystemCollectionCountMap)
		if err != nil {
			return nil, fmt.Errorf("collection.system_collection_count_map: %w", err)
		}
		t.SystemCollectionsPerCollection = table
	}

	if cfg.Dataset.Count > 0 {
		table, err := countTable(cfg.DatasetCollection.DatasetCountMap)
		if err != nil {
			return nil, fmt.Errorf("dataset_collection.dataset_count_map: %w", err)
		}
		t.DatasetsPerCollection = table

		if t.DatasetEnv, err = envTable(cfg.Dataset.EnvCountMap); err != nil {
			return nil, fmt.Errorf("dataset.dataset_env_count_map: %w", err)
		}
		if t.DatasetSLO, err = distribution.NewRange(cfg.Dataset.SLORange.Min, cfg.Dataset.SLORange.Max); err != nil {
			return nil, fmt.Errorf("dataset.dataset_slo_range_seconds: %w", err)
		}
	}

	if cfg.System.Count > 0 {
		table, err := countTable(cfg.SystemCollection.SystemCountMap)
		if err != nil {
			return nil, fmt.Errorf("system_collection.system_count_map: %w", err)
		}
		t.SystemsPerCollection = table

		if t.SystemEnv, err = envTable(cfg.System.EnvCountMap); err != nil {
			return nil, fmt.Errorf("system.system_env_count_map: %w", err)
		}
		if t.SystemCriticality, err = categoricalTable(cfg.System.CriticalityProbaMap, validCriticality); err != nil {
			return nil, fmt.Errorf("system.system_criticality_proba_map: %w", err)
		}
		if t.SystemInputs, err = countTable(cfg.System.InputsCountMap); err != nil {
			return nil, fmt.Errorf("system.system_inputs_count_map: %w", err)
		}
		if t.SystemOutputs, err = countTable(cfg.System.OutputsCountMap); err != nil {
			return nil, fmt.Errorf("system.system_outputs_count_map: %w", err)
		}
		if t.Impact, err = categoricalTable(cfg.DataProcessing.ImpactProbaMap, validImpact); err != nil {
			return nil, fmt.Errorf("data_processing.dataset_impact_proba_map: %w", err)
		}
		if t.Freshness, err = categoricalTable(cfg.DataProcessing.FreshnessProbaMap, validFreshness); err != nil {
			return nil, fmt.Errorf("data_processing.dataset_freshness_proba_map: %w", err)
		}

		// Fan-out histograms demand datasets to point edges at. Catch the
		// impossible combination now rather than mid-run.
		if cfg.Dataset.Count == 0 && (maxKey(t.SystemInputs) > 0 || maxKey(t.SystemOutputs) > 0) {
			return nil, fmt.Errorf("system fan-out histograms can sample positive edge counts but dataset.dataset_count is zero")
		}
	}

	if cfg.DatasetCollection.Count > 0 {
		probs, err := distribution.ParseBinaryMap(cfg.DataIntegrity.VolatilityProbaMap)
		if err != nil {
			return nil, fmt.Errorf("data_integrity.volatility_proba_map: %w", err)
		}
		if t.Volatility, err = distribution.NewBinary(probs); err != nil {
			return nil, fmt.Errorf("data_integrity.volatility_proba_map: %w", err)
		}
		if t.Restoration, err = distribution.NewRange(cfg.DataIntegrity.RestorationRange.Min, cfg.DataIntegrity.RestorationRange.Max); err != nil {
			return nil, fmt.Errorf("data_integrity.restoration_range_seconds: %w", err)
		}
		if t.Regeneration, err = distribution.NewRange(cfg.DataIntegrity.RegenerationRange.Min, cfg.DataIntegrity.RegenerationRange.Max); err != nil {
			return nil, fmt.Errorf("data_integrity.regeneration_range_seconds: %w", err)
		}
		if t.Reconstruction, err = distribution.NewRange(cfg.DataIntegrity.ReconstructionRange.Min, cfg.DataIntegrity.ReconstructionRange.Max); err != nil {
			return nil, fmt.Errorf("data_integrity.reconstruction_range_seconds: %w", err)
		}
	}

	return t, nil
}

func countTable(encoded string) (*distribution.Weighted[int], error) {
	counts, err := distribution.ParseCountMap(encoded)
	if err != nil {
		return nil, err
	}
	return distribution.NewCountTable(counts)
}

// envTable builds an environment table from occurrence counts, rejecting
// labels outside the closed Env domain.
func envTable(encoded string) (*distribution.Weighted[string], error) {
	counts, err := distribution.ParseEnumCountMap(encoded)
	if err != nil {
		return nil, err
	}
	for label := range counts {
		if !schemas.Env(label).Valid() {
			return nil, fmt.Errorf("label %q is not a known environment", label)
		}
	}
	return distribution.NewEnumCounts(counts)
}

// categoricalTable builds a probability table whose labels must satisfy the
// given domain check.
func categoricalTable(encoded string, valid func(string) bool) (*distribution.Weighted[string], error) {
	probs, err := distribution.ParseProbaMap(encoded)
	if err != nil {
		return nil, err
	}
	for label := range probs {
		if !valid(label) {
			return nil, fmt.Errorf("label %q is outside the attribute's domain", label)
		}
	}
	return distribution.NewCategorical(probs)
}

func validCriticality(label string) bool { return schemas.Criticality(label).Valid() }
func validImpact(label string) bool      { return schemas.Impact(label).Valid() }
func validFreshness(label string) bool   { return schemas.Freshness(label).Valid() }

// maxKey returns the largest sampleable value of an int table, 0 for nil.
func maxKey(w *distribution.Weighted[int]) int {
	if w == nil {
		return 0
	}
	values := w.Values()
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

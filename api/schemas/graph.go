package schemas

import (
	"encoding/json"
	"fmt"
	"os"
)

// -- Core Graph Models --
// These types are the external wire schema of a generated topology. A Graph
// is written exactly once per generation run and never mutated afterwards,
// so every struct here is plain data with no behavior beyond (de)serialization.

// Collection is the top-level grouping entity. It owns dataset collections
// and system collections.
type Collection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DatasetCollection groups datasets under one collection.
type DatasetCollection struct {
	ID           int64  `json:"id"`
	CollectionID int64  `json:"collection_id"`
	Name         string `json:"name"`
}

// SystemCollection groups systems under one collection.
type SystemCollection struct {
	ID           int64  `json:"id"`
	CollectionID int64  `json:"collection_id"`
	Name         string `json:"name"`
}

// Dataset is a leaf entity: one logical body of data living in exactly one
// dataset collection.
type Dataset struct {
	ID                  int64  `json:"id"`
	DatasetCollectionID int64  `json:"dataset_collection_id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	RegexGrouping       string `json:"regex_grouping"`
	Env                 Env    `json:"env"`
	SLOSeconds          int64  `json:"slo_seconds"`
}

// System is a leaf entity: one processing system living in exactly one
// system collection.
type System struct {
	ID                 int64       `json:"id"`
	SystemCollectionID int64       `json:"system_collection_id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	RegexGrouping      string      `json:"regex_grouping"`
	Env                Env         `json:"env"`
	Criticality        Criticality `json:"criticality"`
}

// Processing is an edge between one system and one dataset. Inputs=true
// means the system consumes the dataset; false means it produces it. Impact
// and Freshness describe the consequence of that dataset being late or
// unavailable for that system.
type Processing struct {
	ProcessingID int64     `json:"processing_id"`
	SystemID     int64     `json:"system_id"`
	DatasetID    int64     `json:"dataset_id"`
	Impact       Impact    `json:"impact"`
	Freshness    Freshness `json:"freshness"`
	Inputs       bool      `json:"inputs"`
}

// DataIntegrity carries the recovery characteristics of one dataset
// collection. The three durations are sampled independently; no ordering
// between them is implied.
type DataIntegrity struct {
	ID                    int64 `json:"id"`
	DatasetCollectionID   int64 `json:"dataset_collection_id"`
	Volatile              bool  `json:"volatile"`
	RestorationSeconds    int64 `json:"restoration_seconds"`
	RegenerationSeconds   int64 `json:"regeneration_seconds"`
	ReconstructionSeconds int64 `json:"reconstruction_seconds"`
}

// Graph is the single aggregate message a generation run produces. Seed is
// the random seed the run was generated with, so a consumer holding the same
// configuration can reproduce the graph bit for bit.
type Graph struct {
	Seed               int64               `json:"seed"`
	Collections        []Collection        `json:"collections"`
	DatasetCollections []DatasetCollection `json:"dataset_collections"`
	SystemCollections  []SystemCollection  `json:"system_collections"`
	Datasets           []Dataset           `json:"datasets"`
	Systems            []System            `json:"systems"`
	Processings        []Processing        `json:"processings"`
	DataIntegrities    []DataIntegrity     `json:"data_integrities"`
}

// -- Serialization --

// ToJSON renders the graph as indented JSON. Field order follows struct
// declaration order, so identical graphs serialize to identical bytes.
func (g *Graph) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize graph: %w", err)
	}
	return append(data, '\n'), nil
}

// GraphFromJSON parses a serialized graph back into its typed form.
func GraphFromJSON(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse graph: %w", err)
	}
	return &g, nil
}

// WriteFile saves the serialized graph to path. An existing file is only
// replaced when overwrite is set, mirroring the guard a user expects from a
// tool that may take minutes to produce its output.
func (g *Graph) WriteFile(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("output file %q already exists (use overwrite to replace it)", path)
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat output file %q: %w", path, err)
	}

	data, err := g.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write graph to %q: %w", path, err)
	}
	return nil
}

// ReadGraphFile loads and parses a graph previously written by WriteFile.
func ReadGraphFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file %q: %w", path, err)
	}
	return GraphFromJSON(data)
}

// Counts returns the number of entities of each kind, keyed by the wire
// field name. Handy for logging and for the inspect summary.
func (g *Graph) Counts() map[string]int {
	return map[string]int{
		"collections":         len(g.Collections),
		"dataset_collections": len(g.DatasetCollections),
		"system_collections":  len(g.SystemCollections),
		"datasets":            len(g.Datasets),
		"systems":             len(g.Systems),
		"processings":         len(g.Processings),
		"data_integrities":    len(g.DataIntegrities),
	}
}

// Package store persists generated graphs to PostgreSQL. Each generation run
// writes one row per entity into per-kind tables, all keyed by the run id,
// inside a single transaction: a run is either fully persisted or absent.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/topoforge/api/schemas"
)

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Run describes one persisted generation run.
type Run struct {
	ID        string
	Seed      int64
	CreatedAt time.Time
}

// Store provides the PostgreSQL persistence sink for generated graphs.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

// PersistGraph writes every entity of the graph under the given run id. The
// run row carries the seed and the wall clock; the entity rows are the wire
// fields verbatim.
func (s *Store) PersistGraph(ctx context.Context, runID string, g *schemas.Graph) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr != pgx.ErrTxClosed {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	insertRun := `
        INSERT INTO graph_runs (run_id, seed, created_at)
        VALUES ($1, $2, $3);
    `
	if _, err := tx.Exec(ctx, insertRun, runID, g.Seed, time.Now()); err != nil {
		return fmt.Errorf("failed to insert run row: %w", err)
	}

	if err := s.persistCollections(ctx, tx, runID, g.Collections); err != nil {
		return err
	}
	if err := s.persistDatasetCollections(ctx, tx, runID, g.DatasetCollections); err != nil {
		return err
	}
	if err := s.persistSystemCollections(ctx, tx, runID, g.SystemCollections); err != nil {
		return err
	}
	if err := s.persistDatasets(ctx, tx, runID, g.Datasets); err != nil {
		return err
	}
	if err := s.persistSystems(ctx, tx, runID, g.Systems); err != nil {
		return err
	}
	if err := s.persistProcessings(ctx, tx, runID, g.Processings); err != nil {
		return err
	}
	if err := s.persistDataIntegrities(ctx, tx, runID, g.DataIntegrities); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Info("Graph persisted",
		zap.String("run_id", runID),
		zap.Int("collections", len(g.Collections)),
		zap.Int("datasets", len(g.Datasets)),
		zap.Int("systems", len(g.Systems)),
		zap.Int("processings", len(g.Processings)))
	return nil
}

// ListRuns returns the persisted runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	query := `
        SELECT run_id, seed, created_at
        FROM graph_runs
        ORDER BY created_at DESC;
    `
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return runs, nil
}

// copyInto bulk-inserts rows and checks the reported count; CopyFrom is the
// fast path for the leaf and edge tables, which dominate row volume.
func copyInto(ctx context.Context, tx pgx.Tx, table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	copyCount, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", table, err)
	}
	if int(copyCount) != len(rows) {
		return fmt.Errorf("mismatch in copied %s count: expected %d, got %d", table, len(rows), copyCount)
	}
	return nil
}

func (s *Store) persistCollections(ctx context.Context, tx pgx.Tx, runID string, collections []schemas.Collection) error {
	rows := make([][]interface{}, len(collections))
	for i, c := range collections {
		rows[i] = []interface{}{runID, c.ID, c.Name}
	}
	return copyInto(ctx, tx, "collections", []string{"run_id", "id", "name"}, rows)
}

func (s *Store) persistDatasetCollections(ctx context.Context, tx pgx.Tx, runID string, groups []schemas.DatasetCollection) error {
	rows := make([][]interface{}, len(groups))
	for i, dc := range groups {
		rows[i] = []interface{}{runID, dc.ID, dc.CollectionID, dc.Name}
	}
	return copyInto(ctx, tx, "dataset_collections", []string{"run_id", "id", "collection_id", "name"}, rows)
}

func (s *Store) persistSystemCollections(ctx context.Context, tx pgx.Tx, runID string, groups []schemas.SystemCollection) error {
	rows := make([][]interface{}, len(groups))
	for i, sc := range groups {
		rows[i] = []interface{}{runID, sc.ID, sc.CollectionID, sc.Name}
	}
	return copyInto(ctx, tx, "system_collections", []string{"run_id", "id", "collection_id", "name"}, rows)
}

func (s *Store) persistDatasets(ctx context.Context, tx pgx.Tx, runID string, datasets []schemas.Dataset) error {
	rows := make([][]interface{}, len(datasets))
	for i, d := range datasets {
		rows[i] = []interface{}{
			runID, d.ID, d.DatasetCollectionID,
			d.Name, d.Description, d.RegexGrouping,
			string(d.Env), d.SLOSeconds,
		}
	}
	columns := []string{"run_id", "id", "dataset_collection_id", "name", "description", "regex_grouping", "env", "slo_seconds"}
	return copyInto(ctx, tx, "datasets", columns, rows)
}

func (s *Store) persistSystems(ctx context.Context, tx pgx.Tx, runID string, systems []schemas.System) error {
	rows := make([][]interface{}, len(systems))
	for i, sys := range systems {
		rows[i] = []interface{}{
			runID, sys.ID, sys.SystemCollectionID,
			sys.Name, sys.Description, sys.RegexGrouping,
			string(sys.Env), string(sys.Criticality),
		}
	}
	columns := []string{"run_id", "id", "system_collection_id", "name", "description", "regex_grouping", "env", "criticality"}
	return copyInto(ctx, tx, "systems", columns, rows)
}

func (s *Store) persistProcessings(ctx context.Context, tx pgx.Tx, runID string, edges []schemas.Processing) error {
	rows := make([][]interface{}, len(edges))
	for i, p := range edges {
		rows[i] = []interface{}{
			runID, p.ProcessingID, p.SystemID, p.DatasetID,
			string(p.Impact), string(p.Freshness), p.Inputs,
		}
	}
	columns := []string{"run_id", "processing_id", "system_id", "dataset_id", "impact", "freshness", "inputs"}
	return copyInto(ctx, tx, "processings", columns, rows)
}

func (s *Store) persistDataIntegrities(ctx context.Context, tx pgx.Tx, runID string, records []schemas.DataIntegrity) error {
	rows := make([][]interface{}, len(records))
	for i, di := range records {
		rows[i] = []interface{}{
			runID, di.ID, di.DatasetCollectionID, di.Volatile,
			di.RestorationSeconds, di.RegenerationSeconds, di.ReconstructionSeconds,
		}
	}
	columns := []string{"run_id", "id", "dataset_collection_id", "volatile", "restoration_seconds", "regeneration_seconds", "reconstruction_seconds"}
	return copyInto(ctx, tx, "data_integrities", columns, rows)
}

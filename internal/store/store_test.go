package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/topoforge/api/schemas"
)

// testGraph returns a minimal but fully connected graph: one collection, one
// group of each kind, one dataset, one system, one edge, one integrity record.
func testGraph() *schemas.Graph {
	return &schemas.Graph{
		Seed:               42,
		Collections:        []schemas.Collection{{ID: 1, Name: "collection.1"}},
		DatasetCollections: []schemas.DatasetCollection{{ID: 1, CollectionID: 1, Name: "dataset_collection.1"}},
		SystemCollections:  []schemas.SystemCollection{{ID: 1, CollectionID: 1, Name: "system_collection.1"}},
		Datasets: []schemas.Dataset{{
			ID: 1, DatasetCollectionID: 1,
			Name: "dataset.1", Description: "Dataset number 1.", RegexGrouping: "dataset.1.*",
			Env: schemas.EnvProduction, SLOSeconds: 3600,
		}},
		Systems: []schemas.System{{
			ID: 1, SystemCollectionID: 1,
			Name: "system.1", Description: "System number 1.", RegexGrouping: "system.1.*",
			Env: schemas.EnvProduction, Criticality: schemas.CriticalityNone,
		}},
		Processings: []schemas.Processing{{
			ProcessingID: 1, SystemID: 1, DatasetID: 1,
			Impact: schemas.ImpactDegraded, Freshness: schemas.FreshnessDay, Inputs: true,
		}},
		DataIntegrities: []schemas.DataIntegrity{{
			ID: 1, DatasetCollectionID: 1, Volatile: true,
			RestorationSeconds: 60, RegenerationSeconds: 300, ReconstructionSeconds: 3600,
		}},
	}
}

func TestNewStore(t *testing.T) {
	t.Run("should return error if ping fails", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		pingErr := errors.New("database unavailable")
		mockPool.ExpectPing().WillReturnError(pingErr)

		_, err = New(context.Background(), mockPool, zap.NewNop())
		require.Error(t, err)
		assert.ErrorIs(t, err, pingErr, "Error from ping should be propagated")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPersistGraph(t *testing.T) {
	ctx := context.Background()

	insertRun := regexp.QuoteMeta(`
        INSERT INTO graph_runs (run_id, seed, created_at)
        VALUES ($1, $2, $3);
    `)

	t.Run("should persist a full graph in one transaction", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectPing().WillReturnError(nil)
		store, err := New(ctx, mockPool, zap.NewNop())
		require.NoError(t, err)

		runID := uuid.NewString()
		g := testGraph()

		mockPool.ExpectBegin()
		mockPool.ExpectExec(insertRun).
			WithArgs(runID, g.Seed, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		mockPool.ExpectCopyFrom(pgx.Identifier{"collections"},
			[]string{"run_id", "id", "name"}).WillReturnResult(1)
		mockPool.ExpectCopyFrom(pgx.Identifier{"dataset_collections"},
			[]string{"run_id", "id", "collection_id", "name"}).WillReturnResult(1)
		mockPool.ExpectCopyFrom(pgx.Identifier{"system_collections"},
			[]string{"run_id", "id", "collection_id", "name"}).WillReturnResult(1)
		mockPool.ExpectCopyFrom(pgx.Identifier{"datasets"},
			[]string{"run_id", "id", "dataset_collection_id", "name", "description", "regex_grouping", "env", "slo_seconds"}).WillReturnResult(1)
		mockPool.ExpectCopyFrom(pgx.Identifier{"systems"},
			[]string{"run_id", "id", "system_collection_id", "name", "description", "regex_grouping", "env", "criticality"}).WillReturnResult(1)
		mockPool.ExpectCopyFrom(pgx.Identifier{"processings"},
			[]string{"run_id", "processing_id", "system_id", "dataset_id", "impact", "freshness", "inputs"}).WillReturnResult(1)
		mockPool.ExpectCopyFrom(pgx.Identifier{"data_integrities"},
			[]string{"run_id", "id", "dataset_collection_id", "volatile", "restoration_seconds", "regeneration_seconds", "reconstruction_seconds"}).WillReturnResult(1)

		mockPool.ExpectCommit()

		require.NoError(t, store.PersistGraph(ctx, runID, g))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should skip copies for empty entity populations", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectPing().WillReturnError(nil)
		store, err := New(ctx, mockPool, zap.NewNop())
		require.NoError(t, err)

		runID := uuid.NewString()

		// An empty graph still records its run row.
		mockPool.ExpectBegin()
		mockPool.ExpectExec(insertRun).
			WithArgs(runID, int64(0), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		require.NoError(t, store.PersistGraph(ctx, runID, &schemas.Graph{}))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should handle transaction begin failure", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectPing().WillReturnError(nil)
		store, err := New(ctx, mockPool, zap.NewNop())
		require.NoError(t, err)

		beginErr := errors.New("cannot begin tx")
		mockPool.ExpectBegin().WillReturnError(beginErr)

		err = store.PersistGraph(ctx, uuid.NewString(), testGraph())
		require.Error(t, err)
		assert.ErrorIs(t, err, beginErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should rollback if a copy fails", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectPing().WillReturnError(nil)
		store, err := New(ctx, mockPool, zap.NewNop())
		require.NoError(t, err)

		runID := uuid.NewString()
		g := testGraph()
		copyErr := errors.New("copy from failed")

		mockPool.ExpectBegin()
		mockPool.ExpectExec(insertRun).
			WithArgs(runID, g.Seed, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCopyFrom(pgx.Identifier{"collections"},
			[]string{"run_id", "id", "name"}).WillReturnError(copyErr)
		mockPool.ExpectRollback()

		err = store.PersistGraph(ctx, runID, g)
		require.Error(t, err)
		assert.ErrorIs(t, err, copyErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()

	t.Run("should retrieve runs newest first", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectPing().WillReturnError(nil)
		store, err := New(ctx, mockPool, zap.NewNop())
		require.NoError(t, err)

		query := `
        SELECT run_id, seed, created_at
        FROM graph_runs
        ORDER BY created_at DESC;
        `
		newer := uuid.NewString()
		older := uuid.NewString()
		now := time.Now()

		rows := pgxmock.NewRows([]string{"run_id", "seed", "created_at"}).
			AddRow(newer, int64(42), now).
			AddRow(older, int64(7), now.Add(-time.Hour))

		sqlRegex := regexp.QuoteMeta(query)
		sqlRegex = regexp.MustCompile(`\s+`).ReplaceAllString(sqlRegex, `\s+`)
		mockPool.ExpectQuery(sqlRegex).WillReturnRows(rows)

		runs, err := store.ListRuns(ctx)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, newer, runs[0].ID)
		assert.Equal(t, int64(42), runs[0].Seed)
		assert.Equal(t, older, runs[1].ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

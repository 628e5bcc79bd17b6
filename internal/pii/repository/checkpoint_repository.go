package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// PostgreSQLCheckpointRepository implements checkpoint persistence for PostgreSQL.
type PostgreSQLCheckpointRepository struct {
	db *sql.DB
}

// NewPostgreSQLCheckpointRepository creates a new PostgreSQL checkpoint repository.
func NewPostgreSQLCheckpointRepository(db *sql.DB) *PostgreSQLCheckpointRepository {
	return &PostgreSQLCheckpointRepository{db: db}
}

// Get returns the checkpoint of a job and table, or nil when there is none.
func (p *PostgreSQLCheckpointRepository) Get(ctx context.Context, job, table string) (*piiDomain.Checkpoint, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT job, table_name, last_id, target_version, updated_at
			  FROM rotation_checkpoints WHERE job = $1 AND table_name = $2`

	return scanCheckpoint(querier.QueryRowContext(ctx, query, job, table))
}

// Save upserts a checkpoint.
func (p *PostgreSQLCheckpointRepository) Save(ctx context.Context, checkpoint *piiDomain.Checkpoint) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO rotation_checkpoints (job, table_name, last_id, target_version, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (job, table_name) DO UPDATE SET
			  last_id = EXCLUDED.last_id,
			  target_version = EXCLUDED.target_version,
			  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		checkpoint.Job,
		checkpoint.Table,
		checkpoint.LastID,
		checkpoint.TargetVersion,
		checkpoint.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save checkpoint")
	}
	return nil
}

// Delete removes a checkpoint. Deleting a missing checkpoint is not an error.
func (p *PostgreSQLCheckpointRepository) Delete(ctx context.Context, job, table string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM rotation_checkpoints WHERE job = $1 AND table_name = $2`
	if _, err := querier.ExecContext(ctx, query, job, table); err != nil {
		return apperrors.Wrap(err, "failed to delete checkpoint")
	}
	return nil
}

// MySQLCheckpointRepository implements checkpoint persistence for MySQL with BINARY(16)
// row ids.
type MySQLCheckpointRepository struct {
	db *sql.DB
}

// NewMySQLCheckpointRepository creates a new MySQL checkpoint repository.
func NewMySQLCheckpointRepository(db *sql.DB) *MySQLCheckpointRepository {
	return &MySQLCheckpointRepository{db: db}
}

// Get returns the checkpoint of a job and table, or nil when there is none.
func (m *MySQLCheckpointRepository) Get(ctx context.Context, job, table string) (*piiDomain.Checkpoint, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT job, table_name, last_id, target_version, updated_at
			  FROM rotation_checkpoints WHERE job = ? AND table_name = ?`

	return scanCheckpoint(querier.QueryRowContext(ctx, query, job, table))
}

// Save upserts a checkpoint.
func (m *MySQLCheckpointRepository) Save(ctx context.Context, checkpoint *piiDomain.Checkpoint) error {
	querier := database.GetTx(ctx, m.db)

	lastID, err := checkpoint.LastID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal checkpoint id")
	}

	query := `INSERT INTO rotation_checkpoints (job, table_name, last_id, target_version, updated_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  last_id = VALUES(last_id),
			  target_version = VALUES(target_version),
			  updated_at = VALUES(updated_at)`

	_, err = querier.ExecContext(
		ctx,
		query,
		checkpoint.Job,
		checkpoint.Table,
		lastID,
		checkpoint.TargetVersion,
		checkpoint.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save checkpoint")
	}
	return nil
}

// Delete removes a checkpoint. Deleting a missing checkpoint is not an error.
func (m *MySQLCheckpointRepository) Delete(ctx context.Context, job, table string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM rotation_checkpoints WHERE job = ? AND table_name = ?`
	if _, err := querier.ExecContext(ctx, query, job, table); err != nil {
		return apperrors.Wrap(err, "failed to delete checkpoint")
	}
	return nil
}

// scanCheckpoint reads a checkpoint row. uuid.UUID scans both the native PostgreSQL
// type and 16 raw bytes.
func scanCheckpoint(row *sql.Row) (*piiDomain.Checkpoint, error) {
	var checkpoint piiDomain.Checkpoint
	err := row.Scan(
		&checkpoint.Job,
		&checkpoint.Table,
		&checkpoint.LastID,
		&checkpoint.TargetVersion,
		&checkpoint.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to get checkpoint")
	}
	return &checkpoint, nil
}

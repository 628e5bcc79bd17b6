package repository

import (
	"context"
	"database/sql"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
)

// MySQLKeyVersionRepository implements key version persistence for MySQL.
type MySQLKeyVersionRepository struct {
	db *sql.DB
}

// Create inserts a new key version.
func (m *MySQLKeyVersionRepository) Create(ctx context.Context, kv *cryptoDomain.KeyVersion) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO key_versions (version, root_key_id, algorithm, salt, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		kv.Version,
		kv.RootKeyID,
		kv.Algorithm,
		kv.Salt,
		kv.IsActive,
		kv.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create key version")
	}
	return nil
}

// DeactivateAll clears the active flag on every version.
func (m *MySQLKeyVersionRepository) DeactivateAll(ctx context.Context) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `UPDATE key_versions SET is_active = FALSE WHERE is_active = TRUE`); err != nil {
		return apperrors.Wrap(err, "failed to deactivate key versions")
	}
	return nil
}

// List returns every key version, newest first.
func (m *MySQLKeyVersionRepository) List(ctx context.Context) ([]*cryptoDomain.KeyVersion, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT version, root_key_id, algorithm, salt, is_active, created_at
			  FROM key_versions ORDER BY version DESC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list key versions")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanKeyVersions(rows)
}

// Delete removes a key version.
func (m *MySQLKeyVersionRepository) Delete(ctx context.Context, version uint) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM key_versions WHERE version = ?`, version)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete key version")
	}
	return checkDeleted(result, version)
}

// NewMySQLKeyVersionRepository creates a new MySQL key version repository.
func NewMySQLKeyVersionRepository(db *sql.DB) *MySQLKeyVersionRepository {
	return &MySQLKeyVersionRepository{db: db}
}

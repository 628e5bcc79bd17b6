// Package repository persists key version metadata in PostgreSQL and MySQL.
//
// Only the version number, root key ID, algorithm, salt, active flag and creation time
// are stored. Derived keys never leave process memory. All methods join the caller's
// transaction through database.GetTx.
package repository

import (
	"context"
	"database/sql"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
)

// PostgreSQLKeyVersionRepository implements key version persistence for PostgreSQL.
type PostgreSQLKeyVersionRepository struct {
	db *sql.DB
}

// Create inserts a new key version. The primary key on version turns a concurrent
// rotation into a unique violation.
func (p *PostgreSQLKeyVersionRepository) Create(ctx context.Context, kv *cryptoDomain.KeyVersion) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO key_versions (version, root_key_id, algorithm, salt, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

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
func (p *PostgreSQLKeyVersionRepository) DeactivateAll(ctx context.Context) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `UPDATE key_versions SET is_active = false WHERE is_active = true`); err != nil {
		return apperrors.Wrap(err, "failed to deactivate key versions")
	}
	return nil
}

// List returns every key version, newest first.
func (p *PostgreSQLKeyVersionRepository) List(ctx context.Context) ([]*cryptoDomain.KeyVersion, error) {
	querier := database.GetTx(ctx, p.db)

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
func (p *PostgreSQLKeyVersionRepository) Delete(ctx context.Context, version uint) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM key_versions WHERE version = $1`, version)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete key version")
	}
	return checkDeleted(result, version)
}

// NewPostgreSQLKeyVersionRepository creates a new PostgreSQL key version repository.
func NewPostgreSQLKeyVersionRepository(db *sql.DB) *PostgreSQLKeyVersionRepository {
	return &PostgreSQLKeyVersionRepository{db: db}
}

func scanKeyVersions(rows *sql.Rows) ([]*cryptoDomain.KeyVersion, error) {
	var versions []*cryptoDomain.KeyVersion
	for rows.Next() {
		var kv cryptoDomain.KeyVersion
		if err := rows.Scan(
			&kv.Version,
			&kv.RootKeyID,
			&kv.Algorithm,
			&kv.Salt,
			&kv.IsActive,
			&kv.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan key version")
		}
		versions = append(versions, &kv)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate key versions")
	}
	return versions, nil
}

func checkDeleted(result sql.Result, version uint) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return cryptoDomain.ErrKeyNotFound
	}
	return nil
}

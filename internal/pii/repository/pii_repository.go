package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// SQLPIIRepository implements the sensitive column queries for both dialects.
type SQLPIIRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewPostgreSQLPIIRepository creates a PII repository for PostgreSQL.
func NewPostgreSQLPIIRepository(db *sql.DB) *SQLPIIRepository {
	return &SQLPIIRepository{db: db, dialect: PostgreSQL}
}

// NewMySQLPIIRepository creates a PII repository for MySQL.
func NewMySQLPIIRepository(db *sql.DB) *SQLPIIRepository {
	return &SQLPIIRepository{db: db, dialect: MySQL}
}

// FindIDsByHashes returns the ids of rows whose field hash is one of hashes.
func (r *SQLPIIRepository) FindIDsByHashes(
	ctx context.Context,
	table string,
	field piiDomain.FieldSpec,
	hashes [][]byte,
	excludeID uuid.UUID,
) ([]uuid.UUID, error) {
	if !field.Indexed {
		return nil, fmt.Errorf("%w: %s.%s", piiDomain.ErrFieldNotIndexed, table, field.Name)
	}
	if len(hashes) == 0 {
		return nil, nil
	}

	args := r.dialect.Args()
	values := make([]any, len(hashes))
	for i, hash := range hashes {
		values[i] = hash
	}
	query := fmt.Sprintf("SELECT id FROM %s WHERE %s IN (%s)", table, field.Columns().Hash, args.AddAll(values...))

	if excludeID != uuid.Nil {
		id, err := r.dialect.ID(excludeID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal id")
		}
		query += " AND id <> " + args.Add(id)
	}
	query += " ORDER BY id"

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find rows by hash")
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate rows")
	}
	return ids, nil
}

// staleCondition matches rows with any field not under activeVersion. NULL key
// versions (null records) never match.
func staleCondition(t *piiDomain.Table, args *Args, activeVersion uint) string {
	conditions := make([]string, len(t.Fields))
	for i, spec := range t.Fields {
		conditions[i] = fmt.Sprintf("%s <> %s", spec.Columns().KeyVersion, args.Add(int64(activeVersion)))
	}
	return "(" + strings.Join(conditions, " OR ") + ")"
}

// ListStale returns the next batch of rows holding fields under an old key version.
func (r *SQLPIIRepository) ListStale(
	ctx context.Context,
	t *piiDomain.Table,
	activeVersion uint,
	before time.Time,
	afterID uuid.UUID,
	limit int,
) ([]*piiDomain.Row, error) {
	after, err := r.dialect.ID(afterID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal id")
	}

	args := r.dialect.Args()
	query := fmt.Sprintf(
		"SELECT id, updated_at, %s FROM %s WHERE id > %s AND updated_at < %s AND %s ORDER BY id LIMIT %s",
		strings.Join(TableColumns(t), ", "),
		t.Name,
		args.Add(after),
		args.Add(before),
		staleCondition(t, args, activeVersion),
		args.Add(limit),
	)

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, apperrors.Wrap(err, fmt.Sprintf("failed to list stale rows of %s", t.Name))
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []*piiDomain.Row
	for rows.Next() {
		row := &piiDomain.Row{}
		scan := NewTableScan(t)
		targets := append([]any{&row.ID, &row.UpdatedAt}, scan.Targets()...)
		if err := rows.Scan(targets...); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan row")
		}
		row.Fields = scan.Records()
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate rows")
	}
	return out, nil
}

// UpdateFields overwrites the columns of the given fields as long as every field still
// holds the nonce it had in previous, and reports whether the row was written. A
// changed nonce means the field was rewritten since it was read. updated_at is left
// alone: re-encryption is not a change of the record.
func (r *SQLPIIRepository) UpdateFields(
	ctx context.Context,
	t *piiDomain.Table,
	id uuid.UUID,
	previous []*piiDomain.FieldRecord,
	records []*piiDomain.FieldRecord,
) (bool, error) {
	if len(records) == 0 {
		return false, nil
	}

	args := r.dialect.Args()
	sets, err := Assignments(t, args, records...)
	if err != nil {
		return false, err
	}
	idValue, err := r.dialect.ID(id)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal id")
	}
	where := []string{"id = " + args.Add(idValue)}
	for _, record := range previous {
		spec, err := t.Field(record.Field)
		if err != nil {
			return false, err
		}
		if record.IsNull() {
			where = append(where, spec.Columns().Nonce+" IS NULL")
			continue
		}
		where = append(where, spec.Columns().Nonce+" = "+args.Add(record.Encrypted.Nonce))
	}
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s",
		t.Name, strings.Join(sets, ", "), strings.Join(where, " AND "),
	)

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args.Values()...)
	if err != nil {
		return false, apperrors.Wrap(MapWriteError(err), fmt.Sprintf("failed to update %s", t.Name))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected > 0, nil
}

// CountStale counts rows holding fields under an old key version.
func (r *SQLPIIRepository) CountStale(ctx context.Context, t *piiDomain.Table, activeVersion uint) (int64, error) {
	args := r.dialect.Args()
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", t.Name, staleCondition(t, args, activeVersion))

	var count int64
	querier := database.GetTx(ctx, r.db)
	if err := querier.QueryRowContext(ctx, query, args.Values()...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, fmt.Sprintf("failed to count stale rows of %s", t.Name))
	}
	return count, nil
}

// CountByKeyVersion counts stored fields per key version over every registered table.
func (r *SQLPIIRepository) CountByKeyVersion(ctx context.Context) (map[uint]int64, error) {
	var parts []string
	for _, t := range piiDomain.Tables() {
		for _, spec := range t.Fields {
			col := spec.Columns().KeyVersion
			parts = append(parts, fmt.Sprintf(
				"SELECT %s AS key_version, COUNT(*) AS total FROM %s WHERE %s IS NOT NULL GROUP BY %s",
				col, t.Name, col, col,
			))
		}
	}
	query := fmt.Sprintf(
		"SELECT key_version, SUM(total) FROM (%s) usage_by_field GROUP BY key_version",
		strings.Join(parts, " UNION ALL "),
	)

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count fields by key version")
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[uint]int64)
	for rows.Next() {
		var version, total int64
		if err := rows.Scan(&version, &total); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan key version count")
		}
		counts[uint(version)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate key version counts")
	}
	return counts, nil
}

// ListLegacy returns the next batch of rows still holding a plaintext value.
func (r *SQLPIIRepository) ListLegacy(
	ctx context.Context,
	t *piiDomain.Table,
	field piiDomain.FieldSpec,
	legacyColumn string,
	afterID uuid.UUID,
	limit int,
) ([]*piiDomain.LegacyRow, error) {
	after, err := r.dialect.ID(afterID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal id")
	}

	args := r.dialect.Args()
	query := fmt.Sprintf(
		"SELECT id, %s FROM %s WHERE id > %s AND %s IS NOT NULL AND %s IS NULL ORDER BY id LIMIT %s",
		legacyColumn,
		t.Name,
		args.Add(after),
		legacyColumn,
		field.Columns().Enc,
		args.Add(limit),
	)

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, apperrors.Wrap(err, fmt.Sprintf("failed to list legacy rows of %s", t.Name))
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []*piiDomain.LegacyRow
	for rows.Next() {
		var row piiDomain.LegacyRow
		if err := rows.Scan(&row.ID, &row.Value); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan legacy row")
		}
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate legacy rows")
	}
	return out, nil
}

// WriteBackfill stores record and clears the plaintext column in one statement.
func (r *SQLPIIRepository) WriteBackfill(
	ctx context.Context,
	t *piiDomain.Table,
	legacyColumn string,
	id uuid.UUID,
	record *piiDomain.FieldRecord,
) error {
	args := r.dialect.Args()
	sets, err := Assignments(t, args, record)
	if err != nil {
		return err
	}
	sets = append(sets, legacyColumn+" = NULL")

	idValue, err := r.dialect.ID(id)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal id")
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", t.Name, strings.Join(sets, ", "), args.Add(idValue))

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, query, args.Values()...); err != nil {
		return apperrors.Wrap(MapWriteError(err), fmt.Sprintf("failed to backfill %s", t.Name))
	}
	return nil
}

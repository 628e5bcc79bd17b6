// Package repository persists recruitment records in PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiRepository "github.com/allisson/piivault/internal/pii/repository"
	recruitmentDomain "github.com/allisson/piivault/internal/recruitment/domain"
)

// SQLRecruitmentRepository implements recruitment persistence for both dialects.
type SQLRecruitmentRepository struct {
	db      *sql.DB
	dialect piiRepository.Dialect
	table   *piiDomain.Table
	columns string
}

// NewPostgreSQLRecruitmentRepository creates a recruitment repository for PostgreSQL.
func NewPostgreSQLRecruitmentRepository(db *sql.DB) *SQLRecruitmentRepository {
	return newSQLRecruitmentRepository(db, piiRepository.PostgreSQL)
}

// NewMySQLRecruitmentRepository creates a recruitment repository for MySQL.
func NewMySQLRecruitmentRepository(db *sql.DB) *SQLRecruitmentRepository {
	return newSQLRecruitmentRepository(db, piiRepository.MySQL)
}

func newSQLRecruitmentRepository(db *sql.DB, dialect piiRepository.Dialect) *SQLRecruitmentRepository {
	table, err := piiDomain.LookupTable(piiDomain.TableRecruitment)
	if err != nil {
		panic(err)
	}

	cols := append([]string{"id", "full_name"}, piiRepository.TableColumns(table)...)
	cols = append(cols, "description", "created_by", "created_at", "updated_at")

	return &SQLRecruitmentRepository{
		db:      db,
		dialect: dialect,
		table:   table,
		columns: strings.Join(cols, ", "),
	}
}

// Create inserts a recruitment record.
func (r *SQLRecruitmentRepository) Create(ctx context.Context, record *recruitmentDomain.RecruitmentRecord) error {
	id, err := r.dialect.ID(record.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal recruitment id")
	}

	values := []any{id, record.FullName}
	for i, spec := range r.table.Fields {
		values = append(values, piiRepository.FieldValues(spec, record.Fields()[i])...)
	}
	values = append(values, record.Description, record.CreatedBy, record.CreatedAt, record.UpdatedAt)

	args := r.dialect.Args()
	query := fmt.Sprintf("INSERT INTO recruitment (%s) VALUES (%s)", r.columns, args.AddAll(values...))

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, query, args.Values()...); err != nil {
		return apperrors.Wrap(piiRepository.MapWriteError(err), "failed to create recruitment")
	}
	return nil
}

// Get returns a recruitment record by id.
func (r *SQLRecruitmentRepository) Get(ctx context.Context, id uuid.UUID) (*recruitmentDomain.RecruitmentRecord, error) {
	idValue, err := r.dialect.ID(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal recruitment id")
	}

	args := r.dialect.Args()
	query := fmt.Sprintf("SELECT %s FROM recruitment WHERE id = %s", r.columns, args.Add(idValue))

	querier := database.GetTx(ctx, r.db)
	record, err := r.scan(querier.QueryRowContext(ctx, query, args.Values()...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recruitmentDomain.ErrRecruitmentNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get recruitment")
	}
	return record, nil
}

// List returns recruitment records, newest first.
func (r *SQLRecruitmentRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*recruitmentDomain.RecruitmentRecord, error) {
	args := r.dialect.Args()
	query := fmt.Sprintf(
		"SELECT %s FROM recruitment ORDER BY id DESC LIMIT %s OFFSET %s",
		r.columns,
		args.Add(limit),
		args.Add(offset),
	)

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list recruitment")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*recruitmentDomain.RecruitmentRecord, 0)
	for rows.Next() {
		record, err := r.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan recruitment")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate recruitment")
	}
	return records, nil
}

// Update overwrites a recruitment record.
func (r *SQLRecruitmentRepository) Update(ctx context.Context, record *recruitmentDomain.RecruitmentRecord) error {
	args := r.dialect.Args()
	sets := []string{"full_name = " + args.Add(record.FullName)}
	fieldSets, err := piiRepository.Assignments(r.table, args, record.Fields()...)
	if err != nil {
		return err
	}
	sets = append(sets, fieldSets...)
	sets = append(sets,
		"description = "+args.Add(record.Description),
		"updated_at = "+args.Add(record.UpdatedAt),
	)

	id, err := r.dialect.ID(record.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal recruitment id")
	}
	query := fmt.Sprintf("UPDATE recruitment SET %s WHERE id = %s", strings.Join(sets, ", "), args.Add(id))

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args.Values()...)
	if err != nil {
		return apperrors.Wrap(piiRepository.MapWriteError(err), "failed to update recruitment")
	}
	return requireRow(result)
}

// Delete removes a recruitment record.
func (r *SQLRecruitmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	idValue, err := r.dialect.ID(id)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal recruitment id")
	}

	args := r.dialect.Args()
	query := "DELETE FROM recruitment WHERE id = " + args.Add(idValue)

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args.Values()...)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete recruitment")
	}
	return requireRow(result)
}

func (r *SQLRecruitmentRepository) scan(row interface{ Scan(...any) error }) (*recruitmentDomain.RecruitmentRecord, error) {
	var record recruitmentDomain.RecruitmentRecord
	fields := piiRepository.NewTableScan(r.table)

	targets := append([]any{&record.ID, &record.FullName}, fields.Targets()...)
	targets = append(targets, &record.Description, &record.CreatedBy, &record.CreatedAt, &record.UpdatedAt)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	records := fields.Records()
	record.Email = records[piiDomain.FieldEmail]
	record.PhoneNumber = records[piiDomain.FieldPhone]
	return &record, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return recruitmentDomain.ErrRecruitmentNotFound
	}
	return nil
}

// Package repository persists user dates in PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiRepository "github.com/allisson/piivault/internal/pii/repository"
	userDateDomain "github.com/allisson/piivault/internal/userdate/domain"
)

// SQLUserDateRepository implements user date persistence for both dialects.
type SQLUserDateRepository struct {
	db      *sql.DB
	dialect piiRepository.Dialect
	table   *piiDomain.Table
}

// NewPostgreSQLUserDateRepository creates a user date repository for PostgreSQL.
func NewPostgreSQLUserDateRepository(db *sql.DB) *SQLUserDateRepository {
	return newSQLUserDateRepository(db, piiRepository.PostgreSQL)
}

// NewMySQLUserDateRepository creates a user date repository for MySQL.
func NewMySQLUserDateRepository(db *sql.DB) *SQLUserDateRepository {
	return newSQLUserDateRepository(db, piiRepository.MySQL)
}

func newSQLUserDateRepository(db *sql.DB, dialect piiRepository.Dialect) *SQLUserDateRepository {
	table, err := piiDomain.LookupTable(piiDomain.TableUserDates)
	if err != nil {
		panic(err)
	}
	return &SQLUserDateRepository{db: db, dialect: dialect, table: table}
}

func (r *SQLUserDateRepository) columns() string {
	cols := append([]string{"id", "meet_date", "full_name"}, piiRepository.TableColumns(r.table)...)
	cols = append(cols, "meet_location", "meet_type", "is_completed", "created_by", "created_at", "updated_at")
	return strings.Join(cols, ", ")
}

// Create inserts a user date.
func (r *SQLUserDateRepository) Create(ctx context.Context, record *userDateDomain.UserDateRecord) error {
	id, err := r.dialect.ID(record.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user date id")
	}

	values := []any{id, record.MeetDate, record.FullName}
	for i, spec := range r.table.Fields {
		values = append(values, piiRepository.FieldValues(spec, record.Fields()[i])...)
	}
	values = append(values,
		record.MeetLocation, string(record.MeetType), record.IsCompleted,
		record.CreatedBy, record.CreatedAt, record.UpdatedAt,
	)

	args := r.dialect.Args()
	query := fmt.Sprintf("INSERT INTO user_dates (%s) VALUES (%s)", r.columns(), args.AddAll(values...))

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, query, args.Values()...); err != nil {
		return apperrors.Wrap(piiRepository.MapWriteError(err), "failed to create user date")
	}
	return nil
}

// Get returns a user date by id.
func (r *SQLUserDateRepository) Get(ctx context.Context, id uuid.UUID) (*userDateDomain.UserDateRecord, error) {
	idValue, err := r.dialect.ID(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user date id")
	}

	args := r.dialect.Args()
	query := fmt.Sprintf("SELECT %s FROM user_dates WHERE id = %s", r.columns(), args.Add(idValue))

	querier := database.GetTx(ctx, r.db)
	record, err := r.scan(querier.QueryRowContext(ctx, query, args.Values()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userDateDomain.ErrUserDateNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user date")
	}
	return record, nil
}

// List returns user dates whose meet date falls in [from, to), earliest first. A zero
// bound is open.
func (r *SQLUserDateRepository) List(
	ctx context.Context,
	from, to time.Time,
	offset, limit int,
) ([]*userDateDomain.UserDateRecord, error) {
	args := r.dialect.Args()
	var conditions []string
	if !from.IsZero() {
		conditions = append(conditions, "meet_date >= "+args.Add(from))
	}
	if !to.IsZero() {
		conditions = append(conditions, "meet_date < "+args.Add(to))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(
		"SELECT %s FROM user_dates%s ORDER BY meet_date, id LIMIT %s OFFSET %s",
		r.columns(),
		where,
		args.Add(limit),
		args.Add(offset),
	)

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list user dates")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*userDateDomain.UserDateRecord, 0)
	for rows.Next() {
		record, err := r.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user date")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate user dates")
	}
	return records, nil
}

// Update overwrites a user date, including its completion state.
func (r *SQLUserDateRepository) Update(ctx context.Context, record *userDateDomain.UserDateRecord) error {
	args := r.dialect.Args()
	sets := []string{
		"meet_date = " + args.Add(record.MeetDate),
		"full_name = " + args.Add(record.FullName),
	}
	fieldSets, err := piiRepository.Assignments(r.table, args, record.Fields()...)
	if err != nil {
		return err
	}
	sets = append(sets, fieldSets...)
	sets = append(sets,
		"meet_location = "+args.Add(record.MeetLocation),
		"meet_type = "+args.Add(string(record.MeetType)),
		"is_completed = "+args.Add(record.IsCompleted),
		"updated_at = "+args.Add(record.UpdatedAt),
	)

	id, err := r.dialect.ID(record.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user date id")
	}
	query := fmt.Sprintf("UPDATE user_dates SET %s WHERE id = %s", strings.Join(sets, ", "), args.Add(id))

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args.Values()...)
	if err != nil {
		return apperrors.Wrap(piiRepository.MapWriteError(err), "failed to update user date")
	}
	return checkAffected(result)
}

// Delete removes a user date.
func (r *SQLUserDateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	idValue, err := r.dialect.ID(id)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user date id")
	}

	args := r.dialect.Args()
	query := "DELETE FROM user_dates WHERE id = " + args.Add(idValue)

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args.Values()...)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete user date")
	}
	return checkAffected(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLUserDateRepository) scan(row scanner) (*userDateDomain.UserDateRecord, error) {
	var record userDateDomain.UserDateRecord
	var meetType string
	fields := piiRepository.NewTableScan(r.table)

	targets := append([]any{&record.ID, &record.MeetDate, &record.FullName}, fields.Targets()...)
	targets = append(targets,
		&record.MeetLocation, &meetType, &record.IsCompleted,
		&record.CreatedBy, &record.CreatedAt, &record.UpdatedAt,
	)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	record.MeetType = userDateDomain.MeetType(meetType)
	record.PhoneNumber = fields.Records()[piiDomain.FieldPhone]
	return &record, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return userDateDomain.ErrUserDateNotFound
	}
	return nil
}

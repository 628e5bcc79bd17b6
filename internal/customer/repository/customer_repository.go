// Package repository persists customers in PostgreSQL and MySQL. Contact details are
// stored only as encrypted field columns.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	customerDomain "github.com/allisson/piivault/internal/customer/domain"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiRepository "github.com/allisson/piivault/internal/pii/repository"
)

// SQLCustomerRepository implements customer persistence for both dialects.
type SQLCustomerRepository struct {
	db      *sql.DB
	dialect piiRepository.Dialect
	table   *piiDomain.Table
}

// NewPostgreSQLCustomerRepository creates a customer repository for PostgreSQL.
func NewPostgreSQLCustomerRepository(db *sql.DB) *SQLCustomerRepository {
	return newSQLCustomerRepository(db, piiRepository.PostgreSQL)
}

// NewMySQLCustomerRepository creates a customer repository for MySQL.
func NewMySQLCustomerRepository(db *sql.DB) *SQLCustomerRepository {
	return newSQLCustomerRepository(db, piiRepository.MySQL)
}

func newSQLCustomerRepository(db *sql.DB, dialect piiRepository.Dialect) *SQLCustomerRepository {
	table, err := piiDomain.LookupTable(piiDomain.TableCustomers)
	if err != nil {
		panic(err)
	}
	return &SQLCustomerRepository{db: db, dialect: dialect, table: table}
}

func (r *SQLCustomerRepository) columns() string {
	cols := append([]string{"id", "full_name"}, piiRepository.TableColumns(r.table)...)
	cols = append(cols, "comment", "created_by", "created_at", "updated_at")
	return strings.Join(cols, ", ")
}

// Create inserts a customer.
func (r *SQLCustomerRepository) Create(ctx context.Context, record *customerDomain.CustomerRecord) error {
	id, err := r.dialect.ID(record.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customer id")
	}

	values := []any{id, record.FullName}
	for i, spec := range r.table.Fields {
		values = append(values, piiRepository.FieldValues(spec, record.Fields()[i])...)
	}
	values = append(values, record.Comment, record.CreatedBy, record.CreatedAt, record.UpdatedAt)

	args := r.dialect.Args()
	query := fmt.Sprintf("INSERT INTO customers (%s) VALUES (%s)", r.columns(), args.AddAll(values...))

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, query, args.Values()...); err != nil {
		return apperrors.Wrap(piiRepository.MapWriteError(err), "failed to create customer")
	}
	return nil
}

// Get returns a customer by id.
func (r *SQLCustomerRepository) Get(ctx context.Context, id uuid.UUID) (*customerDomain.CustomerRecord, error) {
	idValue, err := r.dialect.ID(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal customer id")
	}

	args := r.dialect.Args()
	query := fmt.Sprintf("SELECT %s FROM customers WHERE id = %s", r.columns(), args.Add(idValue))

	querier := database.GetTx(ctx, r.db)
	record, err := r.scan(querier.QueryRowContext(ctx, query, args.Values()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customerDomain.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get customer")
	}
	return record, nil
}

// List returns customers ordered by id descending (newest first).
func (r *SQLCustomerRepository) List(ctx context.Context, offset, limit int) ([]*customerDomain.CustomerRecord, error) {
	args := r.dialect.Args()
	query := fmt.Sprintf(
		"SELECT %s FROM customers ORDER BY id DESC LIMIT %s OFFSET %s",
		r.columns(),
		args.Add(limit),
		args.Add(offset),
	)

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list customers")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*customerDomain.CustomerRecord, 0)
	for rows.Next() {
		record, err := r.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan customer")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate customers")
	}
	return records, nil
}

// Update overwrites a customer.
func (r *SQLCustomerRepository) Update(ctx context.Context, record *customerDomain.CustomerRecord) error {
	args := r.dialect.Args()
	sets := []string{"full_name = " + args.Add(record.FullName)}
	fieldSets, err := piiRepository.Assignments(r.table, args, record.Fields()...)
	if err != nil {
		return err
	}
	sets = append(sets, fieldSets...)
	sets = append(sets, "comment = "+args.Add(record.Comment), "updated_at = "+args.Add(record.UpdatedAt))

	id, err := r.dialect.ID(record.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customer id")
	}
	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = %s", strings.Join(sets, ", "), args.Add(id))

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args.Values()...)
	if err != nil {
		return apperrors.Wrap(piiRepository.MapWriteError(err), "failed to update customer")
	}
	return checkAffected(result)
}

// Delete removes a customer.
func (r *SQLCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	idValue, err := r.dialect.ID(id)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customer id")
	}

	args := r.dialect.Args()
	query := "DELETE FROM customers WHERE id = " + args.Add(idValue)

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args.Values()...)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete customer")
	}
	return checkAffected(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLCustomerRepository) scan(row scanner) (*customerDomain.CustomerRecord, error) {
	var record customerDomain.CustomerRecord
	fields := piiRepository.NewTableScan(r.table)

	targets := append([]any{&record.ID, &record.FullName}, fields.Targets()...)
	targets = append(targets, &record.Comment, &record.CreatedBy, &record.CreatedAt, &record.UpdatedAt)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	records := fields.Records()
	record.Email = records[piiDomain.FieldEmail]
	record.PhoneNumber = records[piiDomain.FieldPhone]
	record.Address = records[piiDomain.FieldAddress]
	return &record, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return customerDomain.ErrCustomerNotFound
	}
	return nil
}

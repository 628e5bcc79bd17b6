// Package repository persists customer recommendations in PostgreSQL and MySQL.
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
	recommendationDomain "github.com/allisson/piivault/internal/recommendation/domain"
)

// SQLRecommendationRepository implements recommendation persistence for both dialects.
type SQLRecommendationRepository struct {
	db      *sql.DB
	dialect piiRepository.Dialect
	table   *piiDomain.Table
}

// NewPostgreSQLRecommendationRepository creates a recommendation repository for PostgreSQL.
func NewPostgreSQLRecommendationRepository(db *sql.DB) *SQLRecommendationRepository {
	return newSQLRecommendationRepository(db, piiRepository.PostgreSQL)
}

// NewMySQLRecommendationRepository creates a recommendation repository for MySQL.
func NewMySQLRecommendationRepository(db *sql.DB) *SQLRecommendationRepository {
	return newSQLRecommendationRepository(db, piiRepository.MySQL)
}

func newSQLRecommendationRepository(db *sql.DB, dialect piiRepository.Dialect) *SQLRecommendationRepository {
	table, err := piiDomain.LookupTable(piiDomain.TableCustomerRecommendations)
	if err != nil {
		panic(err)
	}
	return &SQLRecommendationRepository{db: db, dialect: dialect, table: table}
}

func (r *SQLRecommendationRepository) columns() string {
	cols := append([]string{"id", "full_name"}, piiRepository.TableColumns(r.table)...)
	cols = append(cols, "referral_name", "created_by", "created_at", "updated_at")
	return strings.Join(cols, ", ")
}

// Create inserts a recommendation. A phone hash already stored under the same key
// version returns ErrDuplicateValue.
func (r *SQLRecommendationRepository) Create(
	ctx context.Context,
	record *recommendationDomain.RecommendationRecord,
) error {
	id, err := r.dialect.ID(record.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal recommendation id")
	}

	values := []any{id, record.FullName}
	for i, spec := range r.table.Fields {
		values = append(values, piiRepository.FieldValues(spec, record.Fields()[i])...)
	}
	values = append(values, record.ReferralName, record.CreatedBy, record.CreatedAt, record.UpdatedAt)

	args := r.dialect.Args()
	query := fmt.Sprintf(
		"INSERT INTO customer_recommendations (%s) VALUES (%s)",
		r.columns(),
		args.AddAll(values...),
	)

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, query, args.Values()...); err != nil {
		return apperrors.Wrap(piiRepository.MapWriteError(err), "failed to create recommendation")
	}
	return nil
}

// Get returns a recommendation by id.
func (r *SQLRecommendationRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*recommendationDomain.RecommendationRecord, error) {
	idValue, err := r.dialect.ID(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal recommendation id")
	}

	args := r.dialect.Args()
	query := fmt.Sprintf("SELECT %s FROM customer_recommendations WHERE id = %s", r.columns(), args.Add(idValue))

	querier := database.GetTx(ctx, r.db)
	record, err := r.scan(querier.QueryRowContext(ctx, query, args.Values()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recommendationDomain.ErrRecommendationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get recommendation")
	}
	return record, nil
}

// List returns recommendations ordered by id descending (newest first).
func (r *SQLRecommendationRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*recommendationDomain.RecommendationRecord, error) {
	args := r.dialect.Args()
	query := fmt.Sprintf(
		"SELECT %s FROM customer_recommendations ORDER BY id DESC LIMIT %s OFFSET %s",
		r.columns(),
		args.Add(limit),
		args.Add(offset),
	)

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list recommendations")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*recommendationDomain.RecommendationRecord, 0)
	for rows.Next() {
		record, err := r.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan recommendation")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate recommendations")
	}
	return records, nil
}

// Update overwrites a recommendation.
func (r *SQLRecommendationRepository) Update(
	ctx context.Context,
	record *recommendationDomain.RecommendationRecord,
) error {
	args := r.dialect.Args()
	sets := []string{"full_name = " + args.Add(record.FullName)}
	fieldSets, err := piiRepository.Assignments(r.table, args, record.Fields()...)
	if err != nil {
		return err
	}
	sets = append(sets, fieldSets...)
	sets = append(sets, "referral_name = "+args.Add(record.ReferralName), "updated_at = "+args.Add(record.UpdatedAt))

	id, err := r.dialect.ID(record.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal recommendation id")
	}
	query := fmt.Sprintf(
		"UPDATE customer_recommendations SET %s WHERE id = %s",
		strings.Join(sets, ", "),
		args.Add(id),
	)

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args.Values()...)
	if err != nil {
		return apperrors.Wrap(piiRepository.MapWriteError(err), "failed to update recommendation")
	}
	return checkAffected(result)
}

// Delete removes a recommendation.
func (r *SQLRecommendationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	idValue, err := r.dialect.ID(id)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal recommendation id")
	}

	args := r.dialect.Args()
	query := "DELETE FROM customer_recommendations WHERE id = " + args.Add(idValue)

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, query, args.Values()...)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete recommendation")
	}
	return checkAffected(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLRecommendationRepository) scan(row scanner) (*recommendationDomain.RecommendationRecord, error) {
	var record recommendationDomain.RecommendationRecord
	fields := piiRepository.NewTableScan(r.table)

	targets := append([]any{&record.ID, &record.FullName}, fields.Targets()...)
	targets = append(targets, &record.ReferralName, &record.CreatedBy, &record.CreatedAt, &record.UpdatedAt)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	records := fields.Records()
	record.PhoneNumber = records[piiDomain.FieldPhone]
	record.City = records[piiDomain.FieldCity]
	return &record, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return recommendationDomain.ErrRecommendationNotFound
	}
	return nil
}

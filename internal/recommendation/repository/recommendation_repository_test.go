package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	recommendationDomain "github.com/allisson/piivault/internal/recommendation/domain"
	recommendationUsecase "github.com/allisson/piivault/internal/recommendation/usecase"
)

var _ recommendationUsecase.RecommendationRepository = (*SQLRecommendationRepository)(nil)

const selectColumns = "id, full_name, " +
	"phone_number_enc, phone_number_nonce, phone_number_hash, phone_number_key_version, " +
	"city_enc, city_nonce, city_key_version, " +
	"referral_name, created_by, created_at, updated_at"

type dialectCase struct {
	name         string
	newRepo      func(db *sql.DB) *SQLRecommendationRepository
	rowID        func(uuid.UUID) any
	bindID       func(uuid.UUID) any
	duplicateErr error
}

var dialects = []dialectCase{
	{
		name:         "postgresql",
		newRepo:      NewPostgreSQLRecommendationRepository,
		rowID:        func(id uuid.UUID) any { return id.String() },
		bindID:       func(id uuid.UUID) any { return id },
		duplicateErr: &pq.Error{Code: "23505", Constraint: "customer_recommendations_phone_number_hash_key"},
	},
	{
		name:    "mysql",
		newRepo: NewMySQLRecommendationRepository,
		rowID:   func(id uuid.UUID) any { return id[:] },
		bindID:  func(id uuid.UUID) any { return id[:] },
		duplicateErr: &mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry for key 'customer_recommendations.customer_recommendations_phone_number_hash_key'",
		},
	},
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func newRecord() *recommendationDomain.RecommendationRecord {
	now := time.Now().UTC()
	return &recommendationDomain.RecommendationRecord{
		ID:       uuid.Must(uuid.NewV7()),
		FullName: "Bela Nagy",
		PhoneNumber: &piiDomain.FieldRecord{
			Field: piiDomain.FieldPhone,
			Encrypted: piiDomain.EncryptedField{
				Ciphertext: []byte("phone-ct"),
				Nonce:      []byte("phone-nonce"),
				KeyVersion: 1,
			},
			Index: &piiDomain.BlindIndex{Hash: []byte("phone-hash"), KeyVersion: 1},
		},
		City: &piiDomain.FieldRecord{
			Field: piiDomain.FieldCity,
			Encrypted: piiDomain.EncryptedField{
				Ciphertext: []byte("city-ct"),
				Nonce:      []byte("city-nonce"),
				KeyVersion: 1,
			},
		},
		ReferralName: "Anna Kovacs",
		CreatedBy:    "agent-7",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func recommendationRow(d dialectCase, record *recommendationDomain.RecommendationRecord) *sqlmock.Rows {
	return sqlmock.NewRows(regexp.MustCompile(`, `).Split(selectColumns, -1)).AddRow(
		d.rowID(record.ID), record.FullName,
		[]byte("phone-ct"), []byte("phone-nonce"), []byte("phone-hash"), int64(1),
		[]byte("city-ct"), []byte("city-nonce"), int64(1),
		record.ReferralName, record.CreatedBy, record.CreatedAt, record.UpdatedAt,
	)
}

func TestRecommendationRepository_Create(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			record := newRecord()

			t.Run("success", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customer_recommendations ("+selectColumns+")")).
					WithArgs(
						d.bindID(record.ID), record.FullName,
						[]byte("phone-ct"), []byte("phone-nonce"), []byte("phone-hash"), int64(1),
						[]byte("city-ct"), []byte("city-nonce"), int64(1),
						record.ReferralName, record.CreatedBy, record.CreatedAt, record.UpdatedAt,
					).
					WillReturnResult(sqlmock.NewResult(0, 1))

				require.NoError(t, d.newRepo(db).Create(context.Background(), record))
			})

			t.Run("duplicate phone hash", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec("INSERT INTO customer_recommendations").WillReturnError(d.duplicateErr)

				err := d.newRepo(db).Create(context.Background(), record)
				assert.ErrorIs(t, err, piiDomain.ErrDuplicateValue)
			})
		})
	}
}

func TestRecommendationRepository_Get(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			record := newRecord()

			t.Run("found", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery(regexp.QuoteMeta("SELECT " + selectColumns + " FROM customer_recommendations WHERE id = ")).
					WithArgs(d.bindID(record.ID)).
					WillReturnRows(recommendationRow(d, record))

				got, err := d.newRepo(db).Get(context.Background(), record.ID)
				require.NoError(t, err)
				assert.Equal(t, record, got)
			})

			t.Run("not found", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery("FROM customer_recommendations").WillReturnRows(sqlmock.NewRows([]string{"id"}))

				_, err := d.newRepo(db).Get(context.Background(), record.ID)
				assert.ErrorIs(t, err, recommendationDomain.ErrRecommendationNotFound)
			})
		})
	}
}

func TestRecommendationRepository_List(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			record := newRecord()
			mock.ExpectQuery(regexp.QuoteMeta("FROM customer_recommendations ORDER BY id DESC LIMIT")).
				WithArgs(20, 0).
				WillReturnRows(recommendationRow(d, record))

			got, err := d.newRepo(db).List(context.Background(), 0, 20)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, record, got[0])
		})
	}
}

func TestRecommendationRepository_Update(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			record := newRecord()

			t.Run("success", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(regexp.QuoteMeta("UPDATE customer_recommendations SET full_name = ")).
					WithArgs(
						record.FullName,
						[]byte("phone-ct"), []byte("phone-nonce"), []byte("phone-hash"), int64(1),
						[]byte("city-ct"), []byte("city-nonce"), int64(1),
						record.ReferralName, record.UpdatedAt, d.bindID(record.ID),
					).
					WillReturnResult(sqlmock.NewResult(0, 1))

				require.NoError(t, d.newRepo(db).Update(context.Background(), record))
			})

			t.Run("missing row", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec("UPDATE customer_recommendations").WillReturnResult(sqlmock.NewResult(0, 0))

				err := d.newRepo(db).Update(context.Background(), record)
				assert.ErrorIs(t, err, recommendationDomain.ErrRecommendationNotFound)
			})
		})
	}
}

func TestRecommendationRepository_Delete(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			id := uuid.Must(uuid.NewV7())
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customer_recommendations WHERE id = ")).
				WithArgs(d.bindID(id)).
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, d.newRepo(db).Delete(context.Background(), id))
		})
	}
}

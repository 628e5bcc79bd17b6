package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	userDateDomain "github.com/allisson/piivault/internal/userdate/domain"
	userDateUsecase "github.com/allisson/piivault/internal/userdate/usecase"
)

var _ userDateUsecase.UserDateRepository = (*SQLUserDateRepository)(nil)

const selectColumns = "id, meet_date, full_name, " +
	"phone_number_enc, phone_number_nonce, phone_number_hash, phone_number_key_version, " +
	"meet_location, meet_type, is_completed, created_by, created_at, updated_at"

type dialectCase struct {
	name    string
	newRepo func(db *sql.DB) *SQLUserDateRepository
	rowID   func(uuid.UUID) any
	bindID  func(uuid.UUID) any
}

var dialects = []dialectCase{
	{
		name:    "postgresql",
		newRepo: NewPostgreSQLUserDateRepository,
		rowID:   func(id uuid.UUID) any { return id.String() },
		bindID:  func(id uuid.UUID) any { return id },
	},
	{
		name:    "mysql",
		newRepo: NewMySQLUserDateRepository,
		rowID:   func(id uuid.UUID) any { return id[:] },
		bindID:  func(id uuid.UUID) any { return id[:] },
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

func newRecord() *userDateDomain.UserDateRecord {
	now := time.Now().UTC()
	return &userDateDomain.UserDateRecord{
		ID:       uuid.Must(uuid.NewV7()),
		MeetDate: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		FullName: "Anna Kovacs",
		PhoneNumber: &piiDomain.FieldRecord{
			Field: piiDomain.FieldPhone,
			Encrypted: piiDomain.EncryptedField{
				Ciphertext: []byte("phone-ct"),
				Nonce:      []byte("phone-nonce"),
				KeyVersion: 1,
			},
			Index: &piiDomain.BlindIndex{Hash: []byte("phone-hash"), KeyVersion: 1},
		},
		MeetLocation: "Budapest office",
		MeetType:     userDateDomain.MeetTypeConsultation,
		CreatedBy:    "agent-7",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func userDateRow(d dialectCase, record *userDateDomain.UserDateRecord) *sqlmock.Rows {
	return sqlmock.NewRows(regexp.MustCompile(`, `).Split(selectColumns, -1)).AddRow(
		d.rowID(record.ID), record.MeetDate, record.FullName,
		[]byte("phone-ct"), []byte("phone-nonce"), []byte("phone-hash"), int64(1),
		record.MeetLocation, string(record.MeetType), record.IsCompleted,
		record.CreatedBy, record.CreatedAt, record.UpdatedAt,
	)
}

func TestUserDateRepository_Create(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			record := newRecord()
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_dates ("+selectColumns+")")).
				WithArgs(
					d.bindID(record.ID), record.MeetDate, record.FullName,
					[]byte("phone-ct"), []byte("phone-nonce"), []byte("phone-hash"), int64(1),
					record.MeetLocation, "consultation", false,
					record.CreatedBy, record.CreatedAt, record.UpdatedAt,
				).
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, d.newRepo(db).Create(context.Background(), record))
		})
	}
}

func TestUserDateRepository_Get(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			record := newRecord()

			t.Run("found", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery(regexp.QuoteMeta("SELECT " + selectColumns + " FROM user_dates WHERE id = ")).
					WithArgs(d.bindID(record.ID)).
					WillReturnRows(userDateRow(d, record))

				got, err := d.newRepo(db).Get(context.Background(), record.ID)
				require.NoError(t, err)
				assert.Equal(t, record, got)
			})

			t.Run("not found", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery("FROM user_dates").WillReturnRows(sqlmock.NewRows([]string{"id"}))

				_, err := d.newRepo(db).Get(context.Background(), record.ID)
				assert.ErrorIs(t, err, userDateDomain.ErrUserDateNotFound)
			})
		})
	}
}

func TestUserDateRepository_List(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

			t.Run("window", func(t *testing.T) {
				db, mock := newMockDB(t)
				record := newRecord()
				mock.ExpectQuery(regexp.QuoteMeta(
					"FROM user_dates WHERE meet_date >= ",
				)).
					WithArgs(from, to, 20, 0).
					WillReturnRows(userDateRow(d, record))

				got, err := d.newRepo(db).List(context.Background(), from, to, 0, 20)
				require.NoError(t, err)
				require.Len(t, got, 1)
				assert.Equal(t, record, got[0])
			})

			t.Run("open bounds", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery(regexp.QuoteMeta("FROM user_dates ORDER BY meet_date, id LIMIT")).
					WithArgs(20, 40).
					WillReturnRows(sqlmock.NewRows(regexp.MustCompile(`, `).Split(selectColumns, -1)))

				got, err := d.newRepo(db).List(context.Background(), time.Time{}, time.Time{}, 40, 20)
				require.NoError(t, err)
				assert.Empty(t, got)
			})
		})
	}
}

func TestUserDateRepository_Update(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			record := newRecord()
			record.IsCompleted = true

			t.Run("success", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(regexp.QuoteMeta("UPDATE user_dates SET meet_date = ")).
					WithArgs(
						record.MeetDate, record.FullName,
						[]byte("phone-ct"), []byte("phone-nonce"), []byte("phone-hash"), int64(1),
						record.MeetLocation, "consultation", true, record.UpdatedAt, d.bindID(record.ID),
					).
					WillReturnResult(sqlmock.NewResult(0, 1))

				require.NoError(t, d.newRepo(db).Update(context.Background(), record))
			})

			t.Run("missing row", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec("UPDATE user_dates").WillReturnResult(sqlmock.NewResult(0, 0))

				err := d.newRepo(db).Update(context.Background(), record)
				assert.ErrorIs(t, err, userDateDomain.ErrUserDateNotFound)
			})
		})
	}
}

func TestUserDateRepository_Delete(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			id := uuid.Must(uuid.NewV7())
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_dates WHERE id = ")).
				WithArgs(d.bindID(id)).
				WillReturnResult(sqlmock.NewResult(0, 0))

			assert.ErrorIs(t, d.newRepo(db).Delete(context.Background(), id), userDateDomain.ErrUserDateNotFound)
		})
	}
}

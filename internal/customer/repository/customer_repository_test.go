package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerDomain "github.com/allisson/piivault/internal/customer/domain"
	customerUsecase "github.com/allisson/piivault/internal/customer/usecase"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

var _ customerUsecase.CustomerRepository = (*SQLCustomerRepository)(nil)

const selectColumns = "id, full_name, " +
	"email_enc, email_nonce, email_hash, email_key_version, " +
	"phone_number_enc, phone_number_nonce, phone_number_hash, phone_number_key_version, " +
	"address_enc, address_nonce, address_key_version, " +
	"comment, created_by, created_at, updated_at"

type dialectCase struct {
	name         string
	newRepo      func(db *sql.DB) *SQLCustomerRepository
	rowID        func(uuid.UUID) any
	bindID       func(uuid.UUID) any
	duplicateErr error
}

var dialects = []dialectCase{
	{
		name:         "postgresql",
		newRepo:      NewPostgreSQLCustomerRepository,
		rowID:        func(id uuid.UUID) any { return id.String() },
		bindID:       func(id uuid.UUID) any { return id },
		duplicateErr: &pq.Error{Code: "23505", Constraint: "customers_email_hash_key"},
	},
	{
		name:         "mysql",
		newRepo:      NewMySQLCustomerRepository,
		rowID:        func(id uuid.UUID) any { return id[:] },
		bindID:       func(id uuid.UUID) any { return id[:] },
		duplicateErr: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry for key 'customers.email_hash'"},
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

func sealed(field piiDomain.FieldName, indexed bool) *piiDomain.FieldRecord {
	record := &piiDomain.FieldRecord{
		Field: field,
		Encrypted: piiDomain.EncryptedField{
			Ciphertext: []byte(string(field) + "-ct"),
			Nonce:      []byte(string(field) + "-nonce"),
			KeyVersion: 1,
		},
	}
	if indexed {
		record.Index = &piiDomain.BlindIndex{Hash: []byte(string(field) + "-hash"), KeyVersion: 1}
	}
	return record
}

func newRecord() *customerDomain.CustomerRecord {
	now := time.Now().UTC()
	return &customerDomain.CustomerRecord{
		ID:          uuid.Must(uuid.NewV7()),
		FullName:    "Anna Kovacs",
		Email:       sealed(piiDomain.FieldEmail, true),
		PhoneNumber: sealed(piiDomain.FieldPhone, true),
		Address:     piiDomain.NullRecord(piiDomain.FieldAddress),
		Comment:     "met at the fair",
		CreatedBy:   "agent-7",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func customerRow(d dialectCase, record *customerDomain.CustomerRecord) *sqlmock.Rows {
	return sqlmock.NewRows(regexp.MustCompile(`, `).Split(selectColumns, -1)).AddRow(
		d.rowID(record.ID), record.FullName,
		record.Email.Encrypted.Ciphertext, record.Email.Encrypted.Nonce, record.Email.Index.Hash, int64(1),
		record.PhoneNumber.Encrypted.Ciphertext, record.PhoneNumber.Encrypted.Nonce, record.PhoneNumber.Index.Hash, int64(1),
		nil, nil, nil,
		record.Comment, record.CreatedBy, record.CreatedAt, record.UpdatedAt,
	)
}

func TestCustomerRepository_Create(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			record := newRecord()

			t.Run("success", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers ("+selectColumns+")")).
					WithArgs(
						d.bindID(record.ID), record.FullName,
						[]byte("email-ct"), []byte("email-nonce"), []byte("email-hash"), int64(1),
						[]byte("phone_number-ct"), []byte("phone_number-nonce"), []byte("phone_number-hash"), int64(1),
						nil, nil, nil,
						record.Comment, record.CreatedBy, record.CreatedAt, record.UpdatedAt,
					).
					WillReturnResult(sqlmock.NewResult(0, 1))

				require.NoError(t, d.newRepo(db).Create(context.Background(), record))
			})

			t.Run("duplicate hash", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec("INSERT INTO customers").WillReturnError(d.duplicateErr)

				err := d.newRepo(db).Create(context.Background(), record)
				assert.ErrorIs(t, err, piiDomain.ErrDuplicateValue)
			})
		})
	}
}

func TestCustomerRepository_Get(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			record := newRecord()

			t.Run("found", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery(regexp.QuoteMeta("SELECT " + selectColumns + " FROM customers WHERE id = ")).
					WithArgs(d.bindID(record.ID)).
					WillReturnRows(customerRow(d, record))

				got, err := d.newRepo(db).Get(context.Background(), record.ID)
				require.NoError(t, err)
				assert.Equal(t, record, got)
			})

			t.Run("not found", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery("FROM customers").WillReturnRows(sqlmock.NewRows([]string{"id"}))

				_, err := d.newRepo(db).Get(context.Background(), record.ID)
				assert.ErrorIs(t, err, customerDomain.ErrCustomerNotFound)
			})
		})
	}
}

func TestCustomerRepository_List(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			record := newRecord()
			mock.ExpectQuery(regexp.QuoteMeta("FROM customers ORDER BY id DESC LIMIT")).
				WithArgs(20, 40).
				WillReturnRows(customerRow(d, record))

			got, err := d.newRepo(db).List(context.Background(), 40, 20)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, record, got[0])
			assert.True(t, got[0].Address.IsNull())
		})
	}
}

func TestCustomerRepository_Update(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			record := newRecord()
			record.Address = sealed(piiDomain.FieldAddress, false)

			t.Run("success", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(regexp.QuoteMeta("UPDATE customers SET full_name = ")).
					WithArgs(
						record.FullName,
						[]byte("email-ct"), []byte("email-nonce"), []byte("email-hash"), int64(1),
						[]byte("phone_number-ct"), []byte("phone_number-nonce"), []byte("phone_number-hash"), int64(1),
						[]byte("address-ct"), []byte("address-nonce"), int64(1),
						record.Comment, record.UpdatedAt, d.bindID(record.ID),
					).
					WillReturnResult(sqlmock.NewResult(0, 1))

				require.NoError(t, d.newRepo(db).Update(context.Background(), record))
			})

			t.Run("missing row", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec("UPDATE customers").WillReturnResult(sqlmock.NewResult(0, 0))

				err := d.newRepo(db).Update(context.Background(), record)
				assert.ErrorIs(t, err, customerDomain.ErrCustomerNotFound)
			})
		})
	}
}

func TestCustomerRepository_Delete(t *testing.T) {
	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			id := uuid.Must(uuid.NewV7())

			t.Run("success", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = ")).
					WithArgs(d.bindID(id)).
					WillReturnResult(sqlmock.NewResult(0, 1))

				require.NoError(t, d.newRepo(db).Delete(context.Background(), id))
			})

			t.Run("database error", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec("DELETE FROM customers").WillReturnError(errors.New("connection reset"))

				assert.ErrorContains(t, d.newRepo(db).Delete(context.Background(), id), "failed to delete customer")
			})
		})
	}
}

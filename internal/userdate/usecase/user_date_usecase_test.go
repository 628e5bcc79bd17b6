package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	databaseMocks "github.com/allisson/piivault/internal/database/mocks"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiMocks "github.com/allisson/piivault/internal/pii/usecase/mocks"
	userDateDomain "github.com/allisson/piivault/internal/userdate/domain"
	userDateMocks "github.com/allisson/piivault/internal/userdate/usecase/mocks"
)

type fixture struct {
	tx    *databaseMocks.MockTxManager
	repo  *userDateMocks.MockUserDateRepository
	store *piiMocks.MockFieldStore
	pii   *piiMocks.MockService
	uc    UserDateUseCase
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		tx:    databaseMocks.NewMockTxManager(t),
		repo:  userDateMocks.NewMockUserDateRepository(t),
		store: piiMocks.NewMockFieldStore(t),
		pii:   piiMocks.NewMockService(t),
	}
	f.uc = NewUserDateUseCase(f.tx, f.repo, f.store, f.pii, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func sealedPhone(label string) *piiDomain.FieldRecord {
	return &piiDomain.FieldRecord{
		Field:     piiDomain.FieldPhone,
		Encrypted: piiDomain.EncryptedField{Ciphertext: []byte(label), Nonce: []byte("nonce"), KeyVersion: 1},
	}
}

func storedUserDate() *userDateDomain.UserDateRecord {
	return &userDateDomain.UserDateRecord{
		ID:          uuid.Must(uuid.NewV7()),
		MeetDate:    time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		FullName:    "Anna Kovacs",
		PhoneNumber: sealedPhone("phone"),
		MeetType:    userDateDomain.MeetTypeService,
		CreatedBy:   "agent-7",
	}
}

func TestUserDateUseCase_Create(t *testing.T) {
	ctx := context.Background()
	input := &userDateDomain.CreateUserDateInput{
		MeetDate:     time.Date(2026, 3, 14, 11, 30, 0, 0, time.FixedZone("CET", 3600)),
		FullName:     "Anna Kovacs",
		PhoneNumber:  "+36 20 123 4567",
		MeetLocation: "Budapest office",
		MeetType:     userDateDomain.MeetTypeNeedsAssessment,
		CreatedBy:    "agent-7",
	}

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		phone := sealedPhone("phone")

		f.pii.On("EncryptField", ctx, table, piiDomain.FieldPhone, input.PhoneNumber).Return(phone, nil).Once()
		f.repo.On("Create", ctx, mock.MatchedBy(func(r *userDateDomain.UserDateRecord) bool {
			return r.PhoneNumber == phone && r.ID != uuid.Nil && !r.IsCompleted &&
				r.MeetDate.Equal(input.MeetDate) && r.MeetDate.Location() == time.UTC
		})).Return(nil).Once()
		f.pii.On("DecryptField", ctx, table, phone).Return("+36201234567", nil).Once()

		userDate, err := f.uc.Create(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "+36201234567", userDate.PhoneNumber)
		assert.Equal(t, userDateDomain.MeetTypeNeedsAssessment, userDate.MeetType)
	})

	t.Run("unknown meet type", func(t *testing.T) {
		f := newFixture(t)
		bad := *input
		bad.MeetType = "lunch"

		_, err := f.uc.Create(ctx, &bad)
		assert.ErrorIs(t, err, userDateDomain.ErrInvalidMeetType)
	})

	t.Run("invalid phone", func(t *testing.T) {
		f := newFixture(t)
		f.pii.On("EncryptField", ctx, table, piiDomain.FieldPhone, input.PhoneNumber).
			Return(nil, piiDomain.ErrNormalization).
			Once()

		_, err := f.uc.Create(ctx, input)
		assert.ErrorIs(t, err, piiDomain.ErrNormalization)
	})
}

func TestUserDateUseCase_Update(t *testing.T) {
	ctx := context.Background()
	input := &userDateDomain.UpdateUserDateInput{
		MeetDate:    time.Date(2026, 3, 21, 9, 0, 0, 0, time.UTC),
		FullName:    "Anna K.",
		PhoneNumber: "06 30 765 4321",
		MeetType:    userDateDomain.MeetTypeAnnualReview,
	}

	t.Run("success keeps completion state", func(t *testing.T) {
		f := newFixture(t)
		record := storedUserDate()
		record.IsCompleted = true
		phone := sealedPhone("phone2")

		f.tx.On("WithTx", ctx, mock.Anything).Return(databaseMocks.RunInTx).Once()
		f.repo.On("Get", ctx, record.ID).Return(record, nil).Once()
		f.pii.On("EncryptField", ctx, table, piiDomain.FieldPhone, input.PhoneNumber).Return(phone, nil).Once()
		f.repo.On("Update", ctx, mock.MatchedBy(func(r *userDateDomain.UserDateRecord) bool {
			return r.PhoneNumber == phone && r.IsCompleted && r.MeetType == userDateDomain.MeetTypeAnnualReview
		})).Return(nil).Once()
		f.pii.On("DecryptField", ctx, table, phone).Return("+36307654321", nil).Once()

		userDate, err := f.uc.Update(ctx, record.ID, input)
		require.NoError(t, err)
		assert.Equal(t, "Anna K.", userDate.FullName)
		assert.True(t, userDate.IsCompleted)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.Must(uuid.NewV7())
		f.tx.On("WithTx", ctx, mock.Anything).Return(databaseMocks.RunInTx).Once()
		f.repo.On("Get", ctx, id).Return(nil, userDateDomain.ErrUserDateNotFound).Once()

		_, err := f.uc.Update(ctx, id, input)
		assert.ErrorIs(t, err, userDateDomain.ErrUserDateNotFound)
	})
}

func TestUserDateUseCase_SetCompleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	record := storedUserDate()

	f.tx.On("WithTx", ctx, mock.Anything).Return(databaseMocks.RunInTx).Once()
	f.repo.On("Get", ctx, record.ID).Return(record, nil).Once()
	f.repo.On("Update", ctx, mock.MatchedBy(func(r *userDateDomain.UserDateRecord) bool {
		return r.IsCompleted
	})).Return(nil).Once()
	f.pii.On("DecryptField", ctx, table, record.PhoneNumber).Return("+36201234567", nil).Once()

	userDate, err := f.uc.SetCompleted(ctx, record.ID, true)
	require.NoError(t, err)
	assert.True(t, userDate.IsCompleted)
}

func TestUserDateUseCase_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	good := storedUserDate()
	bad := storedUserDate()
	bad.PhoneNumber = sealedPhone("tampered")
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	f.repo.On("List", ctx, from, time.Time{}, 0, 20).Return([]*userDateDomain.UserDateRecord{bad, good}, nil).Once()
	f.pii.On("DecryptField", ctx, table, bad.PhoneNumber).Return("", cryptoDomain.ErrAuthenticationFailed).Once()
	f.pii.On("DecryptField", ctx, table, good.PhoneNumber).Return("+36201234567", nil).Once()

	userDates, err := f.uc.List(ctx, from, time.Time{}, 0, 20)
	require.NoError(t, err)
	require.Len(t, userDates, 1)
	assert.Equal(t, good.ID, userDates[0].ID)
}

func TestUserDateUseCase_FindByPhone(t *testing.T) {
	ctx := context.Background()

	t.Run("every meeting with the client", func(t *testing.T) {
		f := newFixture(t)
		first := storedUserDate()
		second := storedUserDate()
		gone := uuid.Must(uuid.NewV7())

		f.store.On("LookupAll", ctx, table, piiDomain.FieldPhone, "06201234567").
			Return([]uuid.UUID{first.ID, gone, second.ID}, nil).
			Once()
		f.repo.On("Get", ctx, first.ID).Return(first, nil).Once()
		f.repo.On("Get", ctx, gone).Return(nil, userDateDomain.ErrUserDateNotFound).Once()
		f.repo.On("Get", ctx, second.ID).Return(second, nil).Once()
		f.pii.On("DecryptField", ctx, table, mock.Anything).Return("+36201234567", nil).Twice()

		userDates, err := f.uc.FindByPhone(ctx, "06201234567")
		require.NoError(t, err)
		require.Len(t, userDates, 2)
		assert.Equal(t, first.ID, userDates[0].ID)
		assert.Equal(t, second.ID, userDates[1].ID)
	})

	t.Run("no meetings", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("LookupAll", ctx, table, piiDomain.FieldPhone, "06201234567").Return([]uuid.UUID{}, nil).Once()

		userDates, err := f.uc.FindByPhone(ctx, "06201234567")
		require.NoError(t, err)
		assert.Empty(t, userDates)
	})
}

func TestUserDateUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := uuid.Must(uuid.NewV7())
	f.repo.On("Delete", ctx, id).Return(nil).Once()

	assert.NoError(t, f.uc.Delete(ctx, id))
}

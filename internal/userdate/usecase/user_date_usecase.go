package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiUsecase "github.com/allisson/piivault/internal/pii/usecase"
	userDateDomain "github.com/allisson/piivault/internal/userdate/domain"
)

const table = piiDomain.TableUserDates

type userDateUseCase struct {
	txManager database.TxManager
	repo      UserDateRepository
	store     piiUsecase.FieldStore
	pii       piiUsecase.Service
	logger    *slog.Logger
}

// NewUserDateUseCase creates a UserDateUseCase.
func NewUserDateUseCase(
	txManager database.TxManager,
	repo UserDateRepository,
	store piiUsecase.FieldStore,
	pii piiUsecase.Service,
	logger *slog.Logger,
) UserDateUseCase {
	return &userDateUseCase{
		txManager: txManager,
		repo:      repo,
		store:     store,
		pii:       pii,
		logger:    logger,
	}
}

func (u *userDateUseCase) Create(
	ctx context.Context,
	input *userDateDomain.CreateUserDateInput,
) (*userDateDomain.UserDate, error) {
	if _, err := userDateDomain.ParseMeetType(string(input.MeetType)); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate user date id")
	}
	now := time.Now().UTC()

	phone, err := u.pii.EncryptField(ctx, table, piiDomain.FieldPhone, input.PhoneNumber)
	if err != nil {
		return nil, err
	}

	record := &userDateDomain.UserDateRecord{
		ID:           id,
		MeetDate:     input.MeetDate.UTC(),
		FullName:     input.FullName,
		PhoneNumber:  phone,
		MeetLocation: input.MeetLocation,
		MeetType:     input.MeetType,
		CreatedBy:    input.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	return u.open(ctx, record)
}

func (u *userDateUseCase) Get(ctx context.Context, id uuid.UUID) (*userDateDomain.UserDate, error) {
	record, err := u.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.open(ctx, record)
}

func (u *userDateUseCase) List(
	ctx context.Context,
	from, to time.Time,
	offset, limit int,
) ([]*userDateDomain.UserDate, error) {
	records, err := u.repo.List(ctx, from, to, offset, limit)
	if err != nil {
		return nil, err
	}
	return u.openAll(ctx, records)
}

func (u *userDateUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *userDateDomain.UpdateUserDateInput,
) (*userDateDomain.UserDate, error) {
	if _, err := userDateDomain.ParseMeetType(string(input.MeetType)); err != nil {
		return nil, err
	}

	var record *userDateDomain.UserDateRecord
	err := u.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if record, err = u.repo.Get(ctx, id); err != nil {
			return err
		}
		if record.PhoneNumber, err = u.pii.EncryptField(ctx, table, piiDomain.FieldPhone, input.PhoneNumber); err != nil {
			return err
		}

		record.MeetDate = input.MeetDate.UTC()
		record.FullName = input.FullName
		record.MeetLocation = input.MeetLocation
		record.MeetType = input.MeetType
		record.UpdatedAt = time.Now().UTC()
		return u.repo.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return u.open(ctx, record)
}

func (u *userDateUseCase) SetCompleted(
	ctx context.Context,
	id uuid.UUID,
	completed bool,
) (*userDateDomain.UserDate, error) {
	var record *userDateDomain.UserDateRecord
	err := u.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if record, err = u.repo.Get(ctx, id); err != nil {
			return err
		}
		record.IsCompleted = completed
		record.UpdatedAt = time.Now().UTC()
		return u.repo.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return u.open(ctx, record)
}

func (u *userDateUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return u.repo.Delete(ctx, id)
}

func (u *userDateUseCase) FindByPhone(ctx context.Context, phone string) ([]*userDateDomain.UserDate, error) {
	ids, err := u.store.LookupAll(ctx, table, piiDomain.FieldPhone, phone)
	if err != nil {
		return nil, err
	}

	records := make([]*userDateDomain.UserDateRecord, 0, len(ids))
	for _, id := range ids {
		record, err := u.repo.Get(ctx, id)
		if apperrors.Is(err, userDateDomain.ErrUserDateNotFound) {
			// deleted between the lookup and the read
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return u.openAll(ctx, records)
}

func (u *userDateUseCase) openAll(
	ctx context.Context,
	records []*userDateDomain.UserDateRecord,
) ([]*userDateDomain.UserDate, error) {
	out := make([]*userDateDomain.UserDate, 0, len(records))
	for _, record := range records {
		userDate, err := u.open(ctx, record)
		if apperrors.Is(err, apperrors.ErrIntegrity) {
			u.logger.ErrorContext(ctx, "skipping user date that failed to decrypt",
				slog.String("table", table),
				slog.String("id", record.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, userDate)
	}
	return out, nil
}

func (u *userDateUseCase) open(
	ctx context.Context,
	record *userDateDomain.UserDateRecord,
) (*userDateDomain.UserDate, error) {
	phone, err := u.pii.DecryptField(ctx, table, record.PhoneNumber)
	if err != nil {
		return nil, err
	}

	return &userDateDomain.UserDate{
		ID:           record.ID,
		MeetDate:     record.MeetDate,
		FullName:     record.FullName,
		PhoneNumber:  phone,
		MeetLocation: record.MeetLocation,
		MeetType:     record.MeetType,
		IsCompleted:  record.IsCompleted,
		CreatedBy:    record.CreatedBy,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}, nil
}

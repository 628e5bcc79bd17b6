package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiUsecase "github.com/allisson/piivault/internal/pii/usecase"
	recruitmentDomain "github.com/allisson/piivault/internal/recruitment/domain"
)

const table = piiDomain.TableRecruitment

type recruitmentUseCase struct {
	txManager database.TxManager
	repo      RecruitmentRepository
	store     piiUsecase.FieldStore
	pii       piiUsecase.Service
	logger    *slog.Logger
}

// NewRecruitmentUseCase creates a RecruitmentUseCase.
func NewRecruitmentUseCase(
	txManager database.TxManager,
	repo RecruitmentRepository,
	store piiUsecase.FieldStore,
	pii piiUsecase.Service,
	logger *slog.Logger,
) RecruitmentUseCase {
	return &recruitmentUseCase{
		txManager: txManager,
		repo:      repo,
		store:     store,
		pii:       pii,
		logger:    logger,
	}
}

// present returns the trimmed value of an optional input and whether it is set.
func present(value *string) (string, bool) {
	if value == nil {
		return "", false
	}
	v := strings.TrimSpace(*value)
	return v, v != ""
}

func requireContact(email, phone *string) error {
	_, hasEmail := present(email)
	_, hasPhone := present(phone)
	if !hasEmail && !hasPhone {
		return recruitmentDomain.ErrContactRequired
	}
	return nil
}

func (r *recruitmentUseCase) Create(
	ctx context.Context,
	input *recruitmentDomain.CreateRecruitmentInput,
) (*recruitmentDomain.Recruitment, error) {
	if err := requireContact(input.Email, input.PhoneNumber); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate recruitment id")
	}
	now := time.Now().UTC()
	record := &recruitmentDomain.RecruitmentRecord{
		ID:          id,
		FullName:    input.FullName,
		Description: input.Description,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if record.Email, err = r.insertUnique(ctx, piiDomain.FieldEmail, input.Email); err != nil {
			return err
		}
		if record.PhoneNumber, err = r.insertUnique(ctx, piiDomain.FieldPhone, input.PhoneNumber); err != nil {
			return err
		}
		return r.repo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return r.open(ctx, record)
}

func (r *recruitmentUseCase) Get(ctx context.Context, id uuid.UUID) (*recruitmentDomain.Recruitment, error) {
	record, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.open(ctx, record)
}

func (r *recruitmentUseCase) List(ctx context.Context, offset, limit int) ([]*recruitmentDomain.Recruitment, error) {
	records, err := r.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*recruitmentDomain.Recruitment, 0, len(records))
	for _, record := range records {
		recruitment, err := r.open(ctx, record)
		if apperrors.Is(err, apperrors.ErrIntegrity) {
			r.logger.ErrorContext(ctx, "skipping recruitment that failed to decrypt",
				slog.String("table", table),
				slog.String("id", record.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, recruitment)
	}
	return out, nil
}

func (r *recruitmentUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *recruitmentDomain.UpdateRecruitmentInput,
) (*recruitmentDomain.Recruitment, error) {
	if err := requireContact(input.Email, input.PhoneNumber); err != nil {
		return nil, err
	}

	var record *recruitmentDomain.RecruitmentRecord
	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if record, err = r.repo.Get(ctx, id); err != nil {
			return err
		}
		if record.Email, err = r.reseal(ctx, id, piiDomain.FieldEmail, input.Email); err != nil {
			return err
		}
		if record.PhoneNumber, err = r.reseal(ctx, id, piiDomain.FieldPhone, input.PhoneNumber); err != nil {
			return err
		}

		record.FullName = input.FullName
		record.Description = input.Description
		record.UpdatedAt = time.Now().UTC()
		return r.repo.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return r.open(ctx, record)
}

func (r *recruitmentUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, id)
}

func (r *recruitmentUseCase) FindByEmail(ctx context.Context, email string) (*recruitmentDomain.Recruitment, error) {
	return r.findBy(ctx, piiDomain.FieldEmail, email)
}

func (r *recruitmentUseCase) FindByPhone(ctx context.Context, phone string) (*recruitmentDomain.Recruitment, error) {
	return r.findBy(ctx, piiDomain.FieldPhone, phone)
}

func (r *recruitmentUseCase) findBy(
	ctx context.Context,
	field piiDomain.FieldName,
	value string,
) (*recruitmentDomain.Recruitment, error) {
	id, err := r.store.LookupByPlaintext(ctx, table, field, value)
	if apperrors.Is(err, piiDomain.ErrNotFound) {
		return nil, recruitmentDomain.ErrRecruitmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// insertUnique seals an optional unique value, returning the null record when absent.
func (r *recruitmentUseCase) insertUnique(
	ctx context.Context,
	field piiDomain.FieldName,
	value *string,
) (*piiDomain.FieldRecord, error) {
	v, ok := present(value)
	if !ok {
		return piiDomain.NullRecord(field), nil
	}
	return r.store.InsertUnique(ctx, table, field, v)
}

// reseal seals an optional unique value of an existing row; the row itself does not
// count as a duplicate.
func (r *recruitmentUseCase) reseal(
	ctx context.Context,
	id uuid.UUID,
	field piiDomain.FieldName,
	value *string,
) (*piiDomain.FieldRecord, error) {
	v, ok := present(value)
	if !ok {
		return piiDomain.NullRecord(field), nil
	}
	if err := r.store.CheckUnique(ctx, table, field, v, id); err != nil {
		return nil, err
	}
	return r.pii.EncryptField(ctx, table, field, v)
}

func (r *recruitmentUseCase) open(
	ctx context.Context,
	record *recruitmentDomain.RecruitmentRecord,
) (*recruitmentDomain.Recruitment, error) {
	email, err := r.pii.DecryptField(ctx, table, record.Email)
	if err != nil {
		return nil, err
	}
	phone, err := r.pii.DecryptField(ctx, table, record.PhoneNumber)
	if err != nil {
		return nil, err
	}

	return &recruitmentDomain.Recruitment{
		ID:          record.ID,
		FullName:    record.FullName,
		Email:       email,
		PhoneNumber: phone,
		Description: record.Description,
		CreatedBy:   record.CreatedBy,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

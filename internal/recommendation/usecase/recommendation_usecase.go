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
	recommendationDomain "github.com/allisson/piivault/internal/recommendation/domain"
)

const table = piiDomain.TableCustomerRecommendations

type recommendationUseCase struct {
	txManager database.TxManager
	repo      RecommendationRepository
	store     piiUsecase.FieldStore
	pii       piiUsecase.Service
	logger    *slog.Logger
}

// NewRecommendationUseCase creates a RecommendationUseCase.
func NewRecommendationUseCase(
	txManager database.TxManager,
	repo RecommendationRepository,
	store piiUsecase.FieldStore,
	pii piiUsecase.Service,
	logger *slog.Logger,
) RecommendationUseCase {
	return &recommendationUseCase{
		txManager: txManager,
		repo:      repo,
		store:     store,
		pii:       pii,
		logger:    logger,
	}
}

func (r *recommendationUseCase) Create(
	ctx context.Context,
	input *recommendationDomain.CreateRecommendationInput,
) (*recommendationDomain.Recommendation, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate recommendation id")
	}
	now := time.Now().UTC()
	record := &recommendationDomain.RecommendationRecord{
		ID:           id,
		FullName:     input.FullName,
		ReferralName: input.ReferralName,
		CreatedBy:    input.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if record.PhoneNumber, err = r.store.InsertUnique(ctx, table, piiDomain.FieldPhone, input.PhoneNumber); err != nil {
			return err
		}
		if record.City, err = r.pii.EncryptField(ctx, table, piiDomain.FieldCity, input.City); err != nil {
			return err
		}
		return r.repo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return r.open(ctx, record)
}

func (r *recommendationUseCase) Get(ctx context.Context, id uuid.UUID) (*recommendationDomain.Recommendation, error) {
	record, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.open(ctx, record)
}

func (r *recommendationUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*recommendationDomain.Recommendation, error) {
	records, err := r.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*recommendationDomain.Recommendation, 0, len(records))
	for _, record := range records {
		recommendation, err := r.open(ctx, record)
		if apperrors.Is(err, apperrors.ErrIntegrity) {
			r.logger.ErrorContext(ctx, "skipping recommendation that failed to decrypt",
				slog.String("table", table),
				slog.String("id", record.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, recommendation)
	}
	return out, nil
}

func (r *recommendationUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *recommendationDomain.UpdateRecommendationInput,
) (*recommendationDomain.Recommendation, error) {
	var record *recommendationDomain.RecommendationRecord
	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if record, err = r.repo.Get(ctx, id); err != nil {
			return err
		}
		if err := r.store.CheckUnique(ctx, table, piiDomain.FieldPhone, input.PhoneNumber, id); err != nil {
			return err
		}
		if record.PhoneNumber, err = r.pii.EncryptField(ctx, table, piiDomain.FieldPhone, input.PhoneNumber); err != nil {
			return err
		}
		if record.City, err = r.pii.EncryptField(ctx, table, piiDomain.FieldCity, input.City); err != nil {
			return err
		}

		record.FullName = input.FullName
		record.ReferralName = input.ReferralName
		record.UpdatedAt = time.Now().UTC()
		return r.repo.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return r.open(ctx, record)
}

func (r *recommendationUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, id)
}

func (r *recommendationUseCase) FindByPhone(
	ctx context.Context,
	phone string,
) (*recommendationDomain.Recommendation, error) {
	id, err := r.store.LookupByPlaintext(ctx, table, piiDomain.FieldPhone, phone)
	if apperrors.Is(err, piiDomain.ErrNotFound) {
		return nil, recommendationDomain.ErrRecommendationNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *recommendationUseCase) open(
	ctx context.Context,
	record *recommendationDomain.RecommendationRecord,
) (*recommendationDomain.Recommendation, error) {
	phone, err := r.pii.DecryptField(ctx, table, record.PhoneNumber)
	if err != nil {
		return nil, err
	}
	city, err := r.pii.DecryptField(ctx, table, record.City)
	if err != nil {
		return nil, err
	}

	return &recommendationDomain.Recommendation{
		ID:           record.ID,
		FullName:     record.FullName,
		PhoneNumber:  phone,
		City:         city,
		ReferralName: record.ReferralName,
		CreatedBy:    record.CreatedBy,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}, nil
}

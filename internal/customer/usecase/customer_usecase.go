package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	customerDomain "github.com/allisson/piivault/internal/customer/domain"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiUsecase "github.com/allisson/piivault/internal/pii/usecase"
)

const table = piiDomain.TableCustomers

// customerUseCase implements CustomerUseCase.
type customerUseCase struct {
	txManager database.TxManager
	repo      CustomerRepository
	store     piiUsecase.FieldStore
	pii       piiUsecase.Service
	logger    *slog.Logger
}

// NewCustomerUseCase creates a CustomerUseCase.
func NewCustomerUseCase(
	txManager database.TxManager,
	repo CustomerRepository,
	store piiUsecase.FieldStore,
	pii piiUsecase.Service,
	logger *slog.Logger,
) CustomerUseCase {
	return &customerUseCase{
		txManager: txManager,
		repo:      repo,
		store:     store,
		pii:       pii,
		logger:    logger,
	}
}

func (c *customerUseCase) Create(
	ctx context.Context,
	input *customerDomain.CreateCustomerInput,
) (*customerDomain.Customer, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate customer id")
	}
	now := time.Now().UTC()

	record := &customerDomain.CustomerRecord{
		ID:        id,
		FullName:  input.FullName,
		Comment:   input.Comment,
		CreatedBy: input.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if record.Email, err = c.store.InsertUnique(ctx, table, piiDomain.FieldEmail, input.Email); err != nil {
			return err
		}
		if record.PhoneNumber, err = c.store.InsertUnique(ctx, table, piiDomain.FieldPhone, input.PhoneNumber); err != nil {
			return err
		}
		if record.Address, err = c.sealOptional(ctx, piiDomain.FieldAddress, input.Address); err != nil {
			return err
		}
		return c.repo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return c.open(ctx, record)
}

func (c *customerUseCase) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	record, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.open(ctx, record)
}

func (c *customerUseCase) List(ctx context.Context, offset, limit int) ([]*customerDomain.Customer, error) {
	records, err := c.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	customers := make([]*customerDomain.Customer, 0, len(records))
	for _, record := range records {
		customer, err := c.open(ctx, record)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrIntegrity) {
				return nil, err
			}
			c.logger.ErrorContext(ctx, "skipping customer that failed to decrypt",
				slog.String("table", table),
				slog.String("id", record.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

func (c *customerUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *customerDomain.UpdateCustomerInput,
) (*customerDomain.Customer, error) {
	var record *customerDomain.CustomerRecord

	err := c.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if record, err = c.repo.Get(ctx, id); err != nil {
			return err
		}

		if err := c.store.CheckUnique(ctx, table, piiDomain.FieldEmail, input.Email, id); err != nil {
			return err
		}
		if err := c.store.CheckUnique(ctx, table, piiDomain.FieldPhone, input.PhoneNumber, id); err != nil {
			return err
		}

		if record.Email, err = c.pii.EncryptField(ctx, table, piiDomain.FieldEmail, input.Email); err != nil {
			return err
		}
		if record.PhoneNumber, err = c.pii.EncryptField(ctx, table, piiDomain.FieldPhone, input.PhoneNumber); err != nil {
			return err
		}
		if record.Address, err = c.sealOptional(ctx, piiDomain.FieldAddress, input.Address); err != nil {
			return err
		}

		record.FullName = input.FullName
		record.Comment = input.Comment
		record.UpdatedAt = time.Now().UTC()
		return c.repo.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return c.open(ctx, record)
}

func (c *customerUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return c.repo.Delete(ctx, id)
}

func (c *customerUseCase) FindByEmail(ctx context.Context, email string) (*customerDomain.Customer, error) {
	return c.findBy(ctx, piiDomain.FieldEmail, email)
}

func (c *customerUseCase) FindByPhone(ctx context.Context, phone string) (*customerDomain.Customer, error) {
	return c.findBy(ctx, piiDomain.FieldPhone, phone)
}

func (c *customerUseCase) findBy(
	ctx context.Context,
	field piiDomain.FieldName,
	value string,
) (*customerDomain.Customer, error) {
	id, err := c.store.LookupByPlaintext(ctx, table, field, value)
	if err != nil {
		if apperrors.Is(err, piiDomain.ErrNotFound) {
			return nil, customerDomain.ErrCustomerNotFound
		}
		return nil, err
	}
	return c.Get(ctx, id)
}

func (c *customerUseCase) sealOptional(
	ctx context.Context,
	field piiDomain.FieldName,
	value *string,
) (*piiDomain.FieldRecord, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return piiDomain.NullRecord(field), nil
	}
	return c.pii.EncryptField(ctx, table, field, *value)
}

// open decrypts the contact fields of a record.
func (c *customerUseCase) open(ctx context.Context, record *customerDomain.CustomerRecord) (*customerDomain.Customer, error) {
	email, err := c.pii.DecryptField(ctx, table, record.Email)
	if err != nil {
		return nil, err
	}
	phone, err := c.pii.DecryptField(ctx, table, record.PhoneNumber)
	if err != nil {
		return nil, err
	}
	address, err := c.pii.DecryptField(ctx, table, record.Address)
	if err != nil {
		return nil, err
	}

	return &customerDomain.Customer{
		ID:          record.ID,
		FullName:    record.FullName,
		Email:       email,
		PhoneNumber: phone,
		Address:     address,
		Comment:     record.Comment,
		CreatedBy:   record.CreatedBy,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

// Package usecase implements customer management over encrypted contact fields.
package usecase

import (
	"context"

	"github.com/google/uuid"

	customerDomain "github.com/allisson/piivault/internal/customer/domain"
)

// CustomerRepository persists customer records.
type CustomerRepository interface {
	// Create inserts a record. A duplicate email or phone hash returns ErrDuplicateValue.
	Create(ctx context.Context, record *customerDomain.CustomerRecord) error

	// Get returns a record by id or ErrCustomerNotFound.
	Get(ctx context.Context, id uuid.UUID) (*customerDomain.CustomerRecord, error)

	// List returns records ordered by id descending.
	List(ctx context.Context, offset, limit int) ([]*customerDomain.CustomerRecord, error)

	// Update overwrites a record and bumps updated_at.
	Update(ctx context.Context, record *customerDomain.CustomerRecord) error

	// Delete removes a record or returns ErrCustomerNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerUseCase manages customers. Contact details go in and come out as plaintext.
type CustomerUseCase interface {
	Create(ctx context.Context, input *customerDomain.CreateCustomerInput) (*customerDomain.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error)

	// List skips records that fail to decrypt and logs their ids.
	List(ctx context.Context, offset, limit int) ([]*customerDomain.Customer, error)

	Update(ctx context.Context, id uuid.UUID, input *customerDomain.UpdateCustomerInput) (*customerDomain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByEmail(ctx context.Context, email string) (*customerDomain.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*customerDomain.Customer, error)
}

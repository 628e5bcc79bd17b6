// Package usecase implements user date management. The client's phone number is
// stored encrypted and indexed, so every meeting with one client can be found without
// decrypting the table.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	userDateDomain "github.com/allisson/piivault/internal/userdate/domain"
)

// UserDateRepository persists user date records.
type UserDateRepository interface {
	Create(ctx context.Context, record *userDateDomain.UserDateRecord) error

	// Get returns a record by id or ErrUserDateNotFound.
	Get(ctx context.Context, id uuid.UUID) (*userDateDomain.UserDateRecord, error)

	// List returns records with a meet date in [from, to), earliest first. Zero bounds
	// are open.
	List(ctx context.Context, from, to time.Time, offset, limit int) ([]*userDateDomain.UserDateRecord, error)

	Update(ctx context.Context, record *userDateDomain.UserDateRecord) error

	// Delete removes a record or returns ErrUserDateNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserDateUseCase manages user dates.
type UserDateUseCase interface {
	Create(ctx context.Context, input *userDateDomain.CreateUserDateInput) (*userDateDomain.UserDate, error)
	Get(ctx context.Context, id uuid.UUID) (*userDateDomain.UserDate, error)

	// List skips records that fail to decrypt and logs their ids.
	List(ctx context.Context, from, to time.Time, offset, limit int) ([]*userDateDomain.UserDate, error)

	Update(ctx context.Context, id uuid.UUID, input *userDateDomain.UpdateUserDateInput) (*userDateDomain.UserDate, error)

	// SetCompleted marks a meeting as held or reopens it.
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*userDateDomain.UserDate, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// FindByPhone returns every meeting with the client holding phone.
	FindByPhone(ctx context.Context, phone string) ([]*userDateDomain.UserDate, error)
}

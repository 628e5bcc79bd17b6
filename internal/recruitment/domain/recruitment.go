// Package domain defines the recruitment entity: a candidate contacted during hiring.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// ErrRecruitmentNotFound indicates no recruitment record matches.
var ErrRecruitmentNotFound = errors.Wrap(errors.ErrNotFound, "recruitment not found")

// ErrContactRequired indicates a candidate without any way to be reached.
var ErrContactRequired = errors.Wrap(errors.ErrInvalidInput, "email or phone number is required")

// Recruitment is a candidate with decrypted contact details. Email and PhoneNumber are
// empty when absent.
type Recruitment struct {
	ID          uuid.UUID
	FullName    string
	Email       string
	PhoneNumber string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecruitmentRecord is the stored form of a candidate.
type RecruitmentRecord struct {
	ID          uuid.UUID
	FullName    string
	Email       *piiDomain.FieldRecord
	PhoneNumber *piiDomain.FieldRecord
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fields returns the sensitive records in table field order.
func (r *RecruitmentRecord) Fields() []*piiDomain.FieldRecord {
	return []*piiDomain.FieldRecord{r.Email, r.PhoneNumber}
}

// CreateRecruitmentInput contains the data of a new candidate. At least one of Email
// and PhoneNumber is required.
type CreateRecruitmentInput struct {
	FullName    string
	Email       *string
	PhoneNumber *string
	Description string
	CreatedBy   string
}

// UpdateRecruitmentInput contains the replacement data of a candidate.
type UpdateRecruitmentInput struct {
	FullName    string
	Email       *string
	PhoneNumber *string
	Description string
}

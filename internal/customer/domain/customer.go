// Package domain defines the customer entity.
//
// A Customer carries plaintext contact details and only ever lives in memory. Its
// stored form, CustomerRecord, holds the sealed FieldRecords that reach the database.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// ErrCustomerNotFound indicates no customer has the requested id or contact value.
var ErrCustomerNotFound = errors.Wrap(errors.ErrNotFound, "customer not found")

// Customer is a customer with decrypted contact details.
type Customer struct {
	ID          uuid.UUID
	FullName    string
	Email       string
	PhoneNumber string
	Address     string
	Comment     string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CustomerRecord is the stored form of a customer.
type CustomerRecord struct {
	ID          uuid.UUID
	FullName    string
	Email       *piiDomain.FieldRecord
	PhoneNumber *piiDomain.FieldRecord
	Address     *piiDomain.FieldRecord
	Comment     string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fields returns the sensitive records in table field order.
func (r *CustomerRecord) Fields() []*piiDomain.FieldRecord {
	return []*piiDomain.FieldRecord{r.Email, r.PhoneNumber, r.Address}
}

// CreateCustomerInput contains the data of a new customer. Address is optional.
type CreateCustomerInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Address     *string
	Comment     string
	CreatedBy   string
}

// UpdateCustomerInput contains the replacement data of a customer.
type UpdateCustomerInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Address     *string
	Comment     string
}

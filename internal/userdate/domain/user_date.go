// Package domain defines the user date entity: a meeting an agent arranged with a
// client, reachable through the client's phone number.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/errors"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
)

// ErrUserDateNotFound indicates no user date has the requested id.
var ErrUserDateNotFound = errors.Wrap(errors.ErrNotFound, "user date not found")

// ErrInvalidMeetType indicates a meet type outside the known set.
var ErrInvalidMeetType = errors.Wrap(errors.ErrInvalidInput, "invalid meet type")

// MeetType is the purpose of a meeting.
type MeetType string

// Meet types.
const (
	MeetTypeNeedsAssessment MeetType = "needs_assessment"
	MeetTypeConsultation    MeetType = "consultation"
	MeetTypeService         MeetType = "service"
	MeetTypeAnnualReview    MeetType = "annual_review"
)

// MeetTypes lists every meet type.
var MeetTypes = []MeetType{
	MeetTypeNeedsAssessment,
	MeetTypeConsultation,
	MeetTypeService,
	MeetTypeAnnualReview,
}

// ParseMeetType returns the meet type named by s.
func ParseMeetType(s string) (MeetType, error) {
	for _, t := range MeetTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMeetType, s)
}

// UserDate is a meeting with the client's phone number decrypted.
type UserDate struct {
	ID           uuid.UUID
	MeetDate     time.Time
	FullName     string
	PhoneNumber  string
	MeetLocation string
	MeetType     MeetType
	IsCompleted  bool
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserDateRecord is the stored form of a meeting.
type UserDateRecord struct {
	ID           uuid.UUID
	MeetDate     time.Time
	FullName     string
	PhoneNumber  *piiDomain.FieldRecord
	MeetLocation string
	MeetType     MeetType
	IsCompleted  bool
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Fields returns the sensitive records in table field order.
func (r *UserDateRecord) Fields() []*piiDomain.FieldRecord {
	return []*piiDomain.FieldRecord{r.PhoneNumber}
}

// CreateUserDateInput contains the data of a new meeting.
type CreateUserDateInput struct {
	MeetDate     time.Time
	FullName     string
	PhoneNumber  string
	MeetLocation string
	MeetType     MeetType
	CreatedBy    string
}

// UpdateUserDateInput contains the replacement data of a meeting. The completion
// state is changed separately.
type UpdateUserDateInput struct {
	MeetDate     time.Time
	FullName     string
	PhoneNumber  string
	MeetLocation string
	MeetType     MeetType
}

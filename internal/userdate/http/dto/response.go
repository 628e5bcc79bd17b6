package dto

import (
	"time"

	userDateDomain "github.com/allisson/piivault/internal/userdate/domain"
)

// UserDateResponse represents a user date in API responses.
type UserDateResponse struct {
	ID           string    `json:"id"`
	MeetDate     time.Time `json:"meet_date"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number"`
	MeetLocation string    `json:"meet_location,omitempty"`
	MeetType     string    `json:"meet_type"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListUserDatesResponse represents a page of user dates.
type ListUserDatesResponse struct {
	Data []UserDateResponse `json:"data"`
}

// MapUserDateToResponse converts a domain user date to an API response.
func MapUserDateToResponse(userDate *userDateDomain.UserDate) UserDateResponse {
	return UserDateResponse{
		ID:           userDate.ID.String(),
		MeetDate:     userDate.MeetDate,
		FullName:     userDate.FullName,
		PhoneNumber:  userDate.PhoneNumber,
		MeetLocation: userDate.MeetLocation,
		MeetType:     string(userDate.MeetType),
		IsCompleted:  userDate.IsCompleted,
		CreatedBy:    userDate.CreatedBy,
		CreatedAt:    userDate.CreatedAt,
		UpdatedAt:    userDate.UpdatedAt,
	}
}

// MapUserDatesToListResponse converts a slice of domain user dates to a list response.
func MapUserDatesToListResponse(userDates []*userDateDomain.UserDate) ListUserDatesResponse {
	data := make([]UserDateResponse, 0, len(userDates))
	for _, userDate := range userDates {
		data = append(data, MapUserDateToResponse(userDate))
	}
	return ListUserDatesResponse{Data: data}
}

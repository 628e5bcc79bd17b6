package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestRecruitmentRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RecruitmentRequest
		wantErr string
	}{
		{name: "email only", req: RecruitmentRequest{FullName: "Bence", Email: strPtr("bence@example.com")}},
		{name: "phone only", req: RecruitmentRequest{FullName: "Bence", PhoneNumber: strPtr("06 30 765 4321")}},
		{name: "no contact passes to use case", req: RecruitmentRequest{FullName: "Bence"}},
		{name: "blank name", req: RecruitmentRequest{FullName: " "}, wantErr: "full_name"},
		{
			name:    "bad email",
			req:     RecruitmentRequest{FullName: "Bence", Email: strPtr("bence@")},
			wantErr: "email",
		},
		{
			name:    "bad phone",
			req:     RecruitmentRequest{FullName: "Bence", PhoneNumber: strPtr("ring ring")},
			wantErr: "phone_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

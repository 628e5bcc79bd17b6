// Package usecase implements recruitment records over encrypted contact fields.
package usecase

import (
	"context"

	"github.com/google/uuid"

	recruitmentDomain "github.com/allisson/piivault/internal/recruitment/domain"
)

// RecruitmentRepository persists recruitment records.
type RecruitmentRepository interface {
	Create(ctx context.Context, record *recruitmentDomain.RecruitmentRecord) error
	Get(ctx context.Context, id uuid.UUID) (*recruitmentDomain.RecruitmentRecord, error)
	List(ctx context.Context, offset, limit int) ([]*recruitmentDomain.RecruitmentRecord, error)
	Update(ctx context.Context, record *recruitmentDomain.RecruitmentRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecruitmentUseCase manages candidates. A candidate needs an email, a phone number or
// both; each present value is unique within the table.
type RecruitmentUseCase interface {
	Create(
		ctx context.Context,
		input *recruitmentDomain.CreateRecruitmentInput,
	) (*recruitmentDomain.Recruitment, error)
	Get(ctx context.Context, id uuid.UUID) (*recruitmentDomain.Recruitment, error)
	List(ctx context.Context, offset, limit int) ([]*recruitmentDomain.Recruitment, error)
	Update(
		ctx context.Context,
		id uuid.UUID,
		input *recruitmentDomain.UpdateRecruitmentInput,
	) (*recruitmentDomain.Recruitment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByEmail(ctx context.Context, email string) (*recruitmentDomain.Recruitment, error)
	FindByPhone(ctx context.Context, phone string) (*recruitmentDomain.Recruitment, error)
}

package repository

import (
	"context"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/pkg/xcontext"
)

type MissionEvidenceRepository interface {
	Create(ctx context.Context, evidence *entity.MissionEvidence) error
	GetByAttemptID(ctx context.Context, attemptID string) (*entity.MissionEvidence, error)
}

type missionEvidenceRepository struct{}

func NewMissionEvidenceRepository() *missionEvidenceRepository {
	return &missionEvidenceRepository{}
}

func (r *missionEvidenceRepository) Create(ctx context.Context, evidence *entity.MissionEvidence) error {
	return xcontext.DB(ctx).Create(evidence).Error
}

func (r *missionEvidenceRepository) GetByAttemptID(
	ctx context.Context, attemptID string,
) (*entity.MissionEvidence, error) {
	var result entity.MissionEvidence
	if err := xcontext.DB(ctx).Take(&result, "attempt_id=?", attemptID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

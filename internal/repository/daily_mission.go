package repository

import (
	"context"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type DailyMissionRepository interface {
	Create(ctx context.Context, mission *entity.DailyMission) error
	Upsert(ctx context.Context, mission *entity.DailyMission) error
	GetByID(ctx context.Context, id string) (*entity.DailyMission, error)
	GetByCode(ctx context.Context, code string) (*entity.DailyMission, error)
	GetList(ctx context.Context) ([]entity.DailyMission, error)
}

type dailyMissionRepository struct{}

func NewDailyMissionRepository() *dailyMissionRepository {
	return &dailyMissionRepository{}
}

func (r *dailyMissionRepository) Create(ctx context.Context, mission *entity.DailyMission) error {
	return xcontext.DB(ctx).Create(mission).Error
}

func (r *dailyMissionRepository) Upsert(ctx context.Context, mission *entity.DailyMission) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "xp_reward", "token_reward", "is_active",
		}),
	}).Create(mission).Error
}

func (r *dailyMissionRepository) GetByID(ctx context.Context, id string) (*entity.DailyMission, error) {
	var result entity.DailyMission
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByCode only resolves active missions. An inactive mission behaves as if
// it does not exist.
func (r *dailyMissionRepository) GetByCode(ctx context.Context, code string) (*entity.DailyMission, error) {
	var result entity.DailyMission
	err := xcontext.DB(ctx).Take(&result, "code=? AND is_active=?", code, true).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *dailyMissionRepository) GetList(ctx context.Context) ([]entity.DailyMission, error) {
	var result []entity.DailyMission
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Order("code ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

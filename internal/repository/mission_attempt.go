package repository

import (
	"context"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type StatisticMissionAttemptFilter struct {
	UserID      string
	MissionSlug string
}

type MissionAttemptStatistic struct {
	Total      int64
	Pending    int64
	Approved   int64
	Rejected   int64
	TotalScore int64
}

type MissionAttemptRepository interface {
	Create(ctx context.Context, attempt *entity.MissionAttempt) error
	GetByID(ctx context.Context, id string) (*entity.MissionAttempt, error)
	GetList(ctx context.Context, filter *GetListMissionAttemptFilter) ([]entity.MissionAttempt, error)
	Count(ctx context.Context, filter *GetListMissionAttemptFilter) (int64, error)
	Statistic(ctx context.Context, filter StatisticMissionAttemptFilter) (*MissionAttemptStatistic, error)
}

type GetListMissionAttemptFilter struct {
	UserID      string
	MissionSlug string
	Status      entity.MissionAttemptStatus
	Offset      int
	Limit       int
}

type missionAttemptRepository struct{}

func NewMissionAttemptRepository() *missionAttemptRepository {
	return &missionAttemptRepository{}
}

func (r *missionAttemptRepository) Create(ctx context.Context, attempt *entity.MissionAttempt) error {
	return xcontext.DB(ctx).Create(attempt).Error
}

func (r *missionAttemptRepository) GetByID(ctx context.Context, id string) (*entity.MissionAttempt, error) {
	var result entity.MissionAttempt
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *missionAttemptRepository) applyFilter(ctx context.Context, filter *GetListMissionAttemptFilter) *gorm.DB {
	tx := xcontext.DB(ctx).Model(&entity.MissionAttempt{}).Where("user_id=?", filter.UserID)
	if filter.MissionSlug != "" {
		tx = tx.Where("mission_slug=?", filter.MissionSlug)
	}

	if filter.Status != "" {
		tx = tx.Where("status=?", filter.Status)
	}

	return tx
}

func (r *missionAttemptRepository) GetList(
	ctx context.Context, filter *GetListMissionAttemptFilter,
) ([]entity.MissionAttempt, error) {
	var result []entity.MissionAttempt
	err := r.applyFilter(ctx, filter).
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *missionAttemptRepository) Count(
	ctx context.Context, filter *GetListMissionAttemptFilter,
) (int64, error) {
	var count int64
	if err := r.applyFilter(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *missionAttemptRepository) Statistic(
	ctx context.Context, filter StatisticMissionAttemptFilter,
) (*MissionAttemptStatistic, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.MissionAttempt{}).
		Select(`
			COUNT(*) AS total,
			SUM(CASE WHEN status=? THEN 1 ELSE 0 END) AS pending,
			SUM(CASE WHEN status=? THEN 1 ELSE 0 END) AS approved,
			SUM(CASE WHEN status=? THEN 1 ELSE 0 END) AS rejected,
			SUM(CASE WHEN status=? THEN score ELSE 0 END) AS total_score`,
			entity.MissionAttemptPending,
			entity.MissionAttemptApproved,
			entity.MissionAttemptRejected,
			entity.MissionAttemptApproved,
		).
		Where("user_id=?", filter.UserID)
	if filter.MissionSlug != "" {
		tx = tx.Where("mission_slug=?", filter.MissionSlug)
	}

	var result MissionAttemptStatistic
	if err := tx.Scan(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

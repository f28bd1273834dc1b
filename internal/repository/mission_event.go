package repository

import (
	"context"
	"time"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/pkg/xcontext"
)

type MissionEventRepository interface {
	Create(ctx context.Context, event *entity.MissionEvent) error
	Count(ctx context.Context, userID, missionSlug, eventType string) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	GetList(ctx context.Context, userID, missionSlug string, limit int) ([]entity.MissionEvent, error)
}

type missionEventRepository struct{}

func NewMissionEventRepository() *missionEventRepository {
	return &missionEventRepository{}
}

func (r *missionEventRepository) Create(ctx context.Context, event *entity.MissionEvent) error {
	return xcontext.DB(ctx).Create(event).Error
}

func (r *missionEventRepository) Count(
	ctx context.Context, userID, missionSlug, eventType string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.MissionEvent{}).
		Where("user_id=? AND mission_slug=? AND event_type=?", userID, missionSlug, eventType).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *missionEventRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.MissionEvent{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *missionEventRepository) GetList(
	ctx context.Context, userID, missionSlug string, limit int,
) ([]entity.MissionEvent, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id DESC").
		Limit(limit)
	if missionSlug != "" {
		tx = tx.Where("mission_slug=?", missionSlug)
	}

	var result []entity.MissionEvent
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

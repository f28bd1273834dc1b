package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// ErrAlreadyCompleted reports that the (user, mission, day) row already
// exists. It is how the unique index surfaces to the caller.
var ErrAlreadyCompleted = errors.New("mission already completed")

type MissionCompletionRepository interface {
	Create(ctx context.Context, completion *entity.MissionCompletion) error
	Get(ctx context.Context, userID, missionID, day string) (*entity.MissionCompletion, error)
	GetByDay(ctx context.Context, userID, day string) ([]entity.MissionCompletion, error)
}

type missionCompletionRepository struct{}

func NewMissionCompletionRepository() *missionCompletionRepository {
	return &missionCompletionRepository{}
}

func (r *missionCompletionRepository) Create(ctx context.Context, completion *entity.MissionCompletion) error {
	if err := xcontext.DB(ctx).Create(completion).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrAlreadyCompleted
		}
		return err
	}

	return nil
}

func (r *missionCompletionRepository) Get(
	ctx context.Context, userID, missionID, day string,
) (*entity.MissionCompletion, error) {
	var result entity.MissionCompletion
	err := xcontext.DB(ctx).
		Take(&result, "user_id=? AND mission_id=? AND day=?", userID, missionID, day).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *missionCompletionRepository) GetByDay(
	ctx context.Context, userID, day string,
) ([]entity.MissionCompletion, error) {
	var result []entity.MissionCompletion
	err := xcontext.DB(ctx).
		Where("user_id=? AND day=?", userID, day).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// mysql error 1062 and the sqlite driver message, which gorm does not
	// always translate.
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

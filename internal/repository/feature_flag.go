package repository

import (
	"context"
	"errors"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeatureFlagRepository interface {
	Get(ctx context.Context, name string) (*entity.FeatureFlag, error)
	IsEnabled(ctx context.Context, name string) (bool, error)
	Upsert(ctx context.Context, flag *entity.FeatureFlag) error
}

type featureFlagRepository struct{}

func NewFeatureFlagRepository() *featureFlagRepository {
	return &featureFlagRepository{}
}

func (r *featureFlagRepository) Get(ctx context.Context, name string) (*entity.FeatureFlag, error) {
	var result entity.FeatureFlag
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// IsEnabled treats an absent flag as disabled.
func (r *featureFlagRepository) IsEnabled(ctx context.Context, name string) (bool, error) {
	flag, err := r.Get(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return flag.IsEnabled, nil
}

func (r *featureFlagRepository) Upsert(ctx context.Context, flag *entity.FeatureFlag) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_enabled"}),
	}).Create(flag).Error
}

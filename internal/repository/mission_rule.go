package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/pkg/xcontext"
	"github.com/connectus-app/backend/pkg/xredis"
	"gorm.io/gorm/clause"
)

const ruleCacheTTL = 5 * time.Minute

type MissionRuleRepository interface {
	GetBySlug(ctx context.Context, missionSlug string) (*entity.MissionRule, error)
	GetList(ctx context.Context, activeOnly bool) ([]entity.MissionRule, error)
	Upsert(ctx context.Context, rule *entity.MissionRule) error
}

type missionRuleRepository struct {
	redisClient xredis.Client
}

func NewMissionRuleRepository(redisClient xredis.Client) *missionRuleRepository {
	return &missionRuleRepository{redisClient: redisClient}
}

func (r *missionRuleRepository) cacheKey(missionSlug string) string {
	return fmt.Sprintf("mission_rule:%s", missionSlug)
}

func (r *missionRuleRepository) GetBySlug(ctx context.Context, missionSlug string) (*entity.MissionRule, error) {
	if r.redisClient != nil {
		var cached entity.MissionRule
		if err := r.redisClient.GetObj(ctx, r.cacheKey(missionSlug), &cached); err == nil {
			return &cached, nil
		}
	}

	var result entity.MissionRule
	err := xcontext.DB(ctx).Take(&result, "mission_slug=?", missionSlug).Error
	if err != nil {
		return nil, err
	}

	if r.redisClient != nil {
		if err := r.redisClient.SetObj(ctx, r.cacheKey(missionSlug), result, ruleCacheTTL); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache mission rule %s: %v", missionSlug, err)
		}
	}

	return &result, nil
}

func (r *missionRuleRepository) GetList(ctx context.Context, activeOnly bool) ([]entity.MissionRule, error) {
	tx := xcontext.DB(ctx).Order("mission_slug ASC")
	if activeOnly {
		tx = tx.Where("is_active=?", true)
	}

	var result []entity.MissionRule
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *missionRuleRepository) Upsert(ctx context.Context, rule *entity.MissionRule) error {
	err := xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "mission_slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rule_name", "rule_config", "xp_reward", "token_reward", "is_active",
		}),
	}).Create(rule).Error
	if err != nil {
		return err
	}

	if r.redisClient != nil {
		if err := r.redisClient.Del(ctx, r.cacheKey(rule.MissionSlug)); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot invalidate mission rule %s: %v", rule.MissionSlug, err)
		}
	}

	return nil
}

package main

import (
	"github.com/BurntSushi/toml"
	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/migration"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

type seedData struct {
	FeatureFlags []struct {
		Name      string `toml:"name"`
		IsEnabled bool   `toml:"is_enabled"`
	} `toml:"feature_flags"`

	MissionRules []struct {
		MissionSlug string         `toml:"mission_slug"`
		RuleName    string         `toml:"rule_name"`
		RuleConfig  map[string]any `toml:"rule_config"`
		XPReward    int64          `toml:"xp_reward"`
		TokenReward int64          `toml:"token_reward"`
		IsActive    bool           `toml:"is_active"`
	} `toml:"mission_rules"`

	DailyMissions []struct {
		Code        string `toml:"code"`
		Title       string `toml:"title"`
		Description string `toml:"description"`
		XPReward    int64  `toml:"xp_reward"`
		TokenReward int64  `toml:"token_reward"`
		IsActive    bool   `toml:"is_active"`
	} `toml:"daily_missions"`
}

// startSeed upserts flags, rules and daily missions from a toml file. It is
// safe to run repeatedly.
func (s *srv) startSeed(ct *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()

	var data seedData
	if _, err := toml.DecodeFile(ct.String("file"), &data); err != nil {
		return err
	}

	ctx := s.newContext()
	if err := migration.AutoMigrate(ctx); err != nil {
		return err
	}

	for _, flag := range data.FeatureFlags {
		err := s.featureFlagRepo.Upsert(ctx, &entity.FeatureFlag{
			Base:      entity.Base{ID: uuid.NewString()},
			Name:      flag.Name,
			IsEnabled: flag.IsEnabled,
		})
		if err != nil {
			return err
		}

		s.logger.Infof("Seeded flag %s", flag.Name)
	}

	for _, rule := range data.MissionRules {
		err := s.missionRuleRepo.Upsert(ctx, &entity.MissionRule{
			Base:        entity.Base{ID: uuid.NewString()},
			MissionSlug: rule.MissionSlug,
			RuleName:    rule.RuleName,
			RuleConfig:  entity.Map(rule.RuleConfig),
			XPReward:    rule.XPReward,
			TokenReward: rule.TokenReward,
			IsActive:    rule.IsActive,
		})
		if err != nil {
			return err
		}

		s.logger.Infof("Seeded rule %s", rule.MissionSlug)
	}

	for _, mission := range data.DailyMissions {
		err := s.dailyMissionRepo.Upsert(ctx, &entity.DailyMission{
			Base:        entity.Base{ID: uuid.NewString()},
			Code:        mission.Code,
			Title:       mission.Title,
			Description: mission.Description,
			XPReward:    mission.XPReward,
			TokenReward: mission.TokenReward,
			IsActive:    mission.IsActive,
		})
		if err != nil {
			return err
		}

		s.logger.Infof("Seeded daily mission %s", mission.Code)
	}

	return nil
}

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/connectus-app/backend/config"
	"github.com/connectus-app/backend/migration"
	"github.com/connectus-app/backend/pkg/authenticator"
	"github.com/connectus-app/backend/pkg/logger"
	"github.com/connectus-app/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockContext(t *testing.T) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("cannot open in-memory db: %v", err)
	}

	// The in-memory database lives per connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("cannot get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Configs{
		Env: "testing",
		ApiServer: config.ServerConfigs{
			Host:         "localhost",
			Port:         "8080",
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "token-secret",
			AccessToken: config.TokenConfigs{Name: "access_token", Expiration: time.Hour},
		},
		Missions: config.MissionConfigs{
			RealtimeFlagName: "MISSIONS_REALTIME_ENABLED",
			RewardTimezone:   "America/Sao_Paulo",
			QRToken:          config.TokenConfigs{Name: "qr_token", Expiration: 8 * time.Hour},
			AttemptTopic:     "mission_attempts",
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.DEBUG))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))

	if err := migration.AutoMigrate(ctx); err != nil {
		t.Fatalf("cannot migrate: %v", err)
	}

	CreateFixtureDb(ctx, t)
	return ctx
}

func MockContextWithUserID(t *testing.T, userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(t), userID)
}

func CreateFixtureDb(ctx context.Context, t *testing.T) {
	insertUsers(ctx, t)
	insertFeatureFlags(ctx, t)
	insertMissionRules(ctx, t)
	insertDailyMissions(ctx, t)
}

func insert(ctx context.Context, t *testing.T, records ...any) {
	for _, record := range records {
		if err := xcontext.DB(ctx).Create(record).Error; err != nil {
			t.Fatalf("cannot insert fixture: %v", err)
		}
	}
}

func insertUsers(ctx context.Context, t *testing.T) {
	insert(ctx, t, &User1, &User2)
}

func insertFeatureFlags(ctx context.Context, t *testing.T) {
	insert(ctx, t, &RealtimeFlag)
}

func insertMissionRules(ctx context.Context, t *testing.T) {
	insert(ctx, t, &TimelinePostsRule, &OnboardingQRRule, &QuizRule, &PresenceRule)
}

func insertDailyMissions(ctx context.Context, t *testing.T) {
	insert(ctx, t, &CheckinMission, &InviteMission, &RetiredMission)
}

package migration

import (
	"context"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/pkg/xcontext"
)

// AutoMigrate keeps the schema in sync with the entities. Used for tests and
// local development; production uses the versioned sql migrations.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.FeatureFlag{},
		&entity.MissionRule{},
		&entity.MissionEvent{},
		&entity.MissionAttempt{},
		&entity.MissionEvidence{},
		&entity.DailyMission{},
		&entity.MissionCompletion{},
	)
}

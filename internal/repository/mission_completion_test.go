package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/pkg/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_missionCompletionRepository_Create_Duplicate(t *testing.T) {
	ctx := testutil.MockContext(t)
	repo := NewMissionCompletionRepository()

	first := &entity.MissionCompletion{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      testutil.User1.ID,
		MissionID:   "mission-1",
		Day:         "2024-06-01",
		CompletedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, first))

	// Same user, mission and day but a fresh primary key: only the unique
	// index can reject it.
	duplicate := &entity.MissionCompletion{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    testutil.User1.ID,
		MissionID: "mission-1",
		Day:       "2024-06-01",
	}
	err := repo.Create(ctx, duplicate)
	require.ErrorIs(t, err, ErrAlreadyCompleted)

	// Another day or another user is a different key.
	require.NoError(t, repo.Create(ctx, &entity.MissionCompletion{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    testutil.User1.ID,
		MissionID: "mission-1",
		Day:       "2024-06-02",
	}))
	require.NoError(t, repo.Create(ctx, &entity.MissionCompletion{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    testutil.User2.ID,
		MissionID: "mission-1",
		Day:       "2024-06-01",
	}))
}

func Test_isDuplicateKeyError(t *testing.T) {
	require.True(t, isDuplicateKeyError(gorm.ErrDuplicatedKey))
	require.True(t, isDuplicateKeyError(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))
	require.True(t, isDuplicateKeyError(
		errors.New("Error 1062: Duplicate entry 'u1-m1-2024-06-01' for key 'idx_completions_user_mission_day'")))
	require.True(t, isDuplicateKeyError(
		errors.New("UNIQUE constraint failed: mission_completions.user_id, mission_completions.mission_id, mission_completions.day")))
	require.False(t, isDuplicateKeyError(errors.New("connection refused")))
}

func Test_missionCompletionRepository_GetByDay(t *testing.T) {
	ctx := testutil.MockContext(t)
	repo := NewMissionCompletionRepository()

	require.NoError(t, repo.Create(ctx, &entity.MissionCompletion{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    testutil.User1.ID,
		MissionID: "mission-1",
		Day:       "2024-06-01",
	}))
	require.NoError(t, repo.Create(ctx, &entity.MissionCompletion{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    testutil.User1.ID,
		MissionID: "mission-2",
		Day:       "2024-06-01",
	}))

	completions, err := repo.GetByDay(ctx, testutil.User1.ID, "2024-06-01")
	require.NoError(t, err)
	require.Len(t, completions, 2)

	completions, err = repo.GetByDay(ctx, testutil.User1.ID, "2024-06-02")
	require.NoError(t, err)
	require.Empty(t, completions)
}

package domain

import (
	"testing"
	"time"

	"github.com/connectus-app/backend/internal/client"
	"github.com/connectus-app/backend/internal/domain/completion"
	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/internal/model"
	"github.com/connectus-app/backend/internal/repository"
	"github.com/connectus-app/backend/pkg/dateutil"
	"github.com/connectus-app/backend/pkg/errorx"
	"github.com/connectus-app/backend/pkg/testutil"
	"github.com/connectus-app/backend/pkg/xcontext"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newDailyMissionDomain() DailyMissionDomain {
	return NewDailyMissionDomain(
		repository.NewDailyMissionRepository(),
		repository.NewMissionCompletionRepository(),
		completion.NewGuard(
			repository.NewMissionCompletionRepository(),
			client.NewUserBalance(repository.NewUserRepository()),
		),
	)
}

func Test_dailyMissionDomain_Complete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newDailyMissionDomain()

	first, err := d.Complete(ctx, &model.CompleteDailyMissionRequest{Code: "CHECKIN"})
	require.NoError(t, err)
	require.True(t, first.Completed)
	require.False(t, first.AlreadyCompleted)
	require.Equal(t, model.Rewards{XP: 10, Tokens: 2}, first.Rewards)
	require.Equal(t, model.UserTotals{XP: 10, Tokens: 2}, first.UserTotals)

	second, err := d.Complete(ctx, &model.CompleteDailyMissionRequest{Code: "CHECKIN"})
	require.NoError(t, err)
	require.True(t, second.Completed)
	require.True(t, second.AlreadyCompleted)
	require.Equal(t, model.Rewards{}, second.Rewards)

	// Totals reflect exactly one grant.
	require.Equal(t, model.UserTotals{XP: 10, Tokens: 2}, second.UserTotals)
}

func Test_dailyMissionDomain_Complete_CodeNormalization(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newDailyMissionDomain()

	resp, err := d.Complete(ctx, &model.CompleteDailyMissionRequest{Code: "  checkin "})
	require.NoError(t, err)
	require.False(t, resp.AlreadyCompleted)
}

func Test_dailyMissionDomain_Complete_UnknownOrInactive(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newDailyMissionDomain()

	_, err := d.Complete(ctx, &model.CompleteDailyMissionRequest{Code: "NOPE"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found mission NOPE"), err)

	// Inactive missions behave as unknown.
	_, err = d.Complete(ctx, &model.CompleteDailyMissionRequest{Code: "RETIRED"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found mission RETIRED"), err)
}

func Test_dailyMissionDomain_Complete_ExistingRow(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newDailyMissionDomain()

	location, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// A row written by another replica earlier today.
	err = xcontext.DB(ctx).Create(&entity.MissionCompletion{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      testutil.User1.ID,
		MissionID:   testutil.CheckinMission.ID,
		Day:         dateutil.Today(location),
		ProofType:   "daily",
		CompletedAt: time.Now(),
	}).Error
	require.NoError(t, err)

	resp, err := d.Complete(ctx, &model.CompleteDailyMissionRequest{Code: "CHECKIN"})
	require.NoError(t, err)
	require.True(t, resp.AlreadyCompleted)
	require.Equal(t, model.Rewards{}, resp.Rewards)
}

func Test_dailyMissionDomain_GetList(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newDailyMissionDomain()

	_, err := d.Complete(ctx, &model.CompleteDailyMissionRequest{Code: "CHECKIN"})
	require.NoError(t, err)

	resp, err := d.GetList(ctx, &model.GetDailyMissionsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Missions, 2)

	byCode := map[string]model.DailyMission{}
	for _, m := range resp.Missions {
		byCode[m.Code] = m
	}

	require.True(t, byCode["CHECKIN"].CompletedToday)
	require.False(t, byCode["INVITE"].CompletedToday)
}

package domain

import (
	"testing"
	"time"

	"github.com/connectus-app/backend/internal/client"
	"github.com/connectus-app/backend/internal/domain/completion"
	"github.com/connectus-app/backend/internal/model"
	"github.com/connectus-app/backend/internal/repository"
	"github.com/connectus-app/backend/pkg/errorx"
	"github.com/connectus-app/backend/pkg/testutil"
	"github.com/connectus-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newQRDomain() QRDomain {
	return NewQRDomain(
		repository.NewDailyMissionRepository(),
		completion.NewGuard(
			repository.NewMissionCompletionRepository(),
			client.NewUserBalance(repository.NewUserRepository()),
		),
	)
}

func Test_qrDomain_IssueThenVerify(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newQRDomain()

	issued, err := d.Issue(ctx, &model.IssueQRRequest{MissionID: testutil.CheckinMission.ID})
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)

	verified, err := d.Verify(ctx, &model.VerifyQRRequest{Token: issued.Token})
	require.NoError(t, err)
	require.True(t, verified.Completed)
	require.False(t, verified.AlreadyCompleted)
	require.Equal(t, testutil.CheckinMission.ID, verified.MissionID)
	require.Equal(t, model.Rewards{XP: 10, Tokens: 2}, verified.Rewards)

	// The token stays valid but the reward is daily-idempotent.
	again, err := d.Verify(ctx, &model.VerifyQRRequest{Token: issued.Token})
	require.NoError(t, err)
	require.True(t, again.AlreadyCompleted)
	require.Equal(t, model.Rewards{}, again.Rewards)
	require.Equal(t, model.UserTotals{XP: 10, Tokens: 2}, again.UserTotals)
}

func Test_qrDomain_Issue_UnknownMission(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newQRDomain()

	_, err := d.Issue(ctx, &model.IssueQRRequest{MissionID: "nope"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found mission"), err)

	_, err = d.Issue(ctx, &model.IssueQRRequest{MissionID: testutil.RetiredMission.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found mission"), err)
}

func Test_qrDomain_Verify_InvalidToken(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newQRDomain()

	_, err := d.Verify(ctx, &model.VerifyQRRequest{Token: "not-a-token"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid QR token"), err)
}

func Test_qrDomain_Verify_ExpiredToken(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newQRDomain()

	token, err := xcontext.TokenEngine(ctx).Generate(-time.Minute,
		model.QRToken{MissionID: testutil.CheckinMission.ID})
	require.NoError(t, err)

	_, err = d.Verify(ctx, &model.VerifyQRRequest{Token: token})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid QR token"), err)
}

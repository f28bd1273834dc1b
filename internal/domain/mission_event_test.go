package domain

import (
	"testing"

	"github.com/connectus-app/backend/internal/client"
	"github.com/connectus-app/backend/internal/domain/completion"
	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/internal/model"
	"github.com/connectus-app/backend/internal/repository"
	"github.com/connectus-app/backend/pkg/errorx"
	"github.com/connectus-app/backend/pkg/testutil"
	"github.com/connectus-app/backend/pkg/xcontext"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newMissionEventDomain(publisher *testutil.MockPublisher) MissionEventDomain {
	return NewMissionEventDomain(
		repository.NewFeatureFlagRepository(),
		repository.NewMissionRuleRepository(nil),
		repository.NewMissionEventRepository(),
		repository.NewMissionAttemptRepository(),
		repository.NewMissionEvidenceRepository(),
		completion.NewGuard(
			repository.NewMissionCompletionRepository(),
			client.NewUserBalance(repository.NewUserRepository()),
		),
		publisher,
		nil,
	)
}

func Test_missionEventDomain_Submit_EventCount(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	publisher := &testutil.MockPublisher{}
	d := newMissionEventDomain(publisher)

	req := &model.SubmitMissionEventRequest{
		MissionSlug: testutil.TimelinePostsRule.MissionSlug,
		EventType:   "post_created",
		Payload:     map[string]any{"post_id": "p1"},
	}

	first, err := d.Submit(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "pending", first.Status)
	require.Equal(t, "no_match", first.Verdict.Reason)
	require.NotEmpty(t, first.EvidenceHash)
	require.Nil(t, first.Completion)

	second, err := d.Submit(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "pending", second.Status)

	third, err := d.Submit(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "approved", third.Status)
	require.Equal(t, "event_count_ok", third.Verdict.Reason)
	require.Equal(t, 100, third.Verdict.Score)

	require.NotNil(t, third.Completion)
	require.Equal(t, testutil.TimelinePostsRule.XPReward, third.Completion.XPAwarded)
	require.Equal(t, testutil.TimelinePostsRule.TokenReward, third.Completion.TokensAwarded)

	// Every settled attempt is announced.
	require.Len(t, publisher.Published, 3)
}

func Test_missionEventDomain_Submit_ApprovedTwiceAwardsOnce(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	req := &model.SubmitMissionEventRequest{
		MissionSlug: testutil.QuizRule.MissionSlug,
		EventType:   "quiz_submitted",
		Payload:     map[string]any{"passed": true},
	}

	first, err := d.Submit(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "approved", first.Status)
	require.Equal(t, "custom_ok", first.Verdict.Reason)
	require.Equal(t, testutil.QuizRule.XPReward, first.Completion.XPAwarded)

	second, err := d.Submit(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "approved", second.Status)

	// The attempt is still recorded but the reward stays granted once.
	require.Equal(t, int64(0), second.Completion.XPAwarded)
	require.Equal(t, int64(0), second.Completion.TokensAwarded)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.QuizRule.XPReward, user.XP)
	require.Equal(t, testutil.QuizRule.TokenReward, user.TokenBalance)
}

func Test_missionEventDomain_Submit_QRScanned(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	resp, err := d.Submit(ctx, &model.SubmitMissionEventRequest{
		MissionSlug: testutil.OnboardingQRRule.MissionSlug,
		EventType:   "qr_scanned",
		Payload:     map[string]any{"code": "welcome"},
	})
	require.NoError(t, err)
	require.Equal(t, "approved", resp.Status)
	require.Equal(t, "qr_ok", resp.Verdict.Reason)

	// Any other event type does not satisfy the qr rule.
	resp, err = d.Submit(ctx, &model.SubmitMissionEventRequest{
		MissionSlug: testutil.OnboardingQRRule.MissionSlug,
		EventType:   "app_opened",
		Payload:     map[string]any{},
	})
	require.NoError(t, err)
	require.Equal(t, "pending", resp.Status)
	require.Equal(t, "no_match", resp.Verdict.Reason)
}

func Test_missionEventDomain_Submit_GeoCheck(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	resp, err := d.Submit(ctx, &model.SubmitMissionEventRequest{
		MissionSlug: testutil.PresenceRule.MissionSlug,
		EventType:   "location_reported",
		Payload:     map[string]any{"geo_ok": true},
	})
	require.NoError(t, err)
	require.Equal(t, "approved", resp.Status)
	require.Equal(t, "geo_ok", resp.Verdict.Reason)
}

func Test_missionEventDomain_Submit_NoRule(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	resp, err := d.Submit(ctx, &model.SubmitMissionEventRequest{
		MissionSlug: "unknown_mission",
		EventType:   "anything",
		Payload:     map[string]any{},
	})
	require.NoError(t, err)
	require.Equal(t, "pending", resp.Status)
	require.Equal(t, "no_rule", resp.Verdict.Reason)
	require.Empty(t, resp.EvidenceHash)
}

func Test_missionEventDomain_Submit_FlagDisabled(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	flag := testutil.RealtimeFlag
	flag.ID = uuid.NewString()
	flag.IsEnabled = false
	require.NoError(t, repository.NewFeatureFlagRepository().Upsert(ctx, &flag))

	_, err := d.Submit(ctx, &model.SubmitMissionEventRequest{
		MissionSlug: testutil.QuizRule.MissionSlug,
		EventType:   "quiz_submitted",
		Payload:     map[string]any{"passed": true},
	})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.Unavailable, "Realtime missions are disabled"), err)
}

func Test_missionEventDomain_GetAttempts(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	req := &model.SubmitMissionEventRequest{
		MissionSlug: testutil.TimelinePostsRule.MissionSlug,
		EventType:   "post_created",
		Payload:     map[string]any{},
	}
	for i := 0; i < 3; i++ {
		_, err := d.Submit(ctx, req)
		require.NoError(t, err)
	}

	resp, err := d.GetAttempts(ctx, &model.GetMissionAttemptsRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Attempts, 2)
	require.Equal(t, int64(3), resp.Pagination.Total)
	require.True(t, resp.Pagination.HasMore)

	approved, err := d.GetAttempts(ctx, &model.GetMissionAttemptsRequest{Status: "approved"})
	require.NoError(t, err)
	require.Len(t, approved.Attempts, 1)
	require.Equal(t, "event_count_ok", approved.Attempts[0].Reason)

	_, err = d.GetAttempts(ctx, &model.GetMissionAttemptsRequest{Status: "bogus"})
	require.Error(t, err)
}

func Test_missionEventDomain_GetStats(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	req := &model.SubmitMissionEventRequest{
		MissionSlug: testutil.TimelinePostsRule.MissionSlug,
		EventType:   "post_created",
		Payload:     map[string]any{},
	}
	for i := 0; i < 3; i++ {
		_, err := d.Submit(ctx, req)
		require.NoError(t, err)
	}

	resp, err := d.GetStats(ctx, &model.GetMissionStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.Total)
	require.Equal(t, int64(2), resp.Pending)
	require.Equal(t, int64(1), resp.Approved)
	require.Equal(t, int64(0), resp.Rejected)
	require.Equal(t, int64(100), resp.TotalScore)
	require.InDelta(t, 33.33, resp.SuccessRate, 0.01)
}

func Test_missionEventDomain_GetRules(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	inactive := testutil.QuizRule
	inactive.ID = uuid.NewString()
	inactive.IsActive = false
	require.NoError(t, repository.NewMissionRuleRepository(nil).Upsert(ctx, &inactive))

	resp, err := d.GetRules(ctx, &model.GetMissionRulesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Rules, 3)

	all, err := d.GetRules(ctx, &model.GetMissionRulesRequest{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all.Rules, 4)
}

func Test_missionEventDomain_VerifyEvidence(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	resp, err := d.Submit(ctx, &model.SubmitMissionEventRequest{
		MissionSlug: testutil.QuizRule.MissionSlug,
		EventType:   "quiz_submitted",
		Payload:     map[string]any{"passed": true},
	})
	require.NoError(t, err)
	require.Equal(t, "approved", resp.Status)

	verify, err := d.VerifyEvidence(ctx, &model.VerifyMissionEvidenceRequest{AttemptID: resp.AttemptID})
	require.NoError(t, err)
	require.True(t, verify.Valid)
	require.Equal(t, verify.StoredHash, verify.ComputedHash)

	// Tampering with the stored document breaks the hash.
	err = xcontext.DB(ctx).Model(&entity.MissionEvidence{}).
		Where("attempt_id=?", resp.AttemptID).
		Update("evidence_data", entity.Map{"forged": true}).Error
	require.NoError(t, err)

	verify, err = d.VerifyEvidence(ctx, &model.VerifyMissionEvidenceRequest{AttemptID: resp.AttemptID})
	require.NoError(t, err)
	require.False(t, verify.Valid)
}

func Test_missionEventDomain_VerifyEvidence_OtherUser(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	resp, err := d.Submit(ctx, &model.SubmitMissionEventRequest{
		MissionSlug: testutil.QuizRule.MissionSlug,
		EventType:   "quiz_submitted",
		Payload:     map[string]any{"passed": true},
	})
	require.NoError(t, err)

	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = d.VerifyEvidence(otherCtx, &model.VerifyMissionEvidenceRequest{AttemptID: resp.AttemptID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
}

func Test_missionEventDomain_Health(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	d := newMissionEventDomain(&testutil.MockPublisher{})

	resp, err := d.Health(ctx, &model.GetMissionHealthRequest{})
	require.NoError(t, err)
	require.Equal(t, "healthy", resp.Status)
	require.True(t, resp.RealtimeEnabled)
	require.Equal(t, 4, resp.ActiveRules)

	flag := testutil.RealtimeFlag
	flag.ID = uuid.NewString()
	flag.IsEnabled = false
	require.NoError(t, repository.NewFeatureFlagRepository().Upsert(ctx, &flag))

	resp, err = d.Health(ctx, &model.GetMissionHealthRequest{})
	require.NoError(t, err)
	require.Equal(t, "disabled", resp.Status)
}

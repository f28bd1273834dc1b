package missionrule

import (
	"testing"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/internal/repository"
	"github.com/connectus-app/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_NewRule_UnknownCheck(t *testing.T) {
	ctx := testutil.MockContext(t)

	_, err := NewRule(ctx, &entity.MissionRule{
		MissionSlug: "m",
		RuleConfig:  entity.Map{"teleport": map[string]any{}},
	}, repository.NewMissionEventRepository())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown check")
}

func Test_NewRule_EmptyConfig(t *testing.T) {
	ctx := testutil.MockContext(t)

	_, err := NewRule(ctx, &entity.MissionRule{MissionSlug: "m"},
		repository.NewMissionEventRepository())
	require.Error(t, err)
}

func Test_Rule_Evaluate_EventCount(t *testing.T) {
	ctx := testutil.MockContext(t)
	eventRepo := repository.NewMissionEventRepository()

	rule, err := NewRule(ctx, &entity.MissionRule{
		MissionSlug: "timeline_3_posts",
		RuleConfig: entity.Map{
			"event_count": map[string]any{"event_type": "post_created", "min": float64(2)},
		},
	}, eventRepo)
	require.NoError(t, err)

	event := Event{
		UserID:      testutil.User1.ID,
		MissionSlug: "timeline_3_posts",
		EventType:   "post_created",
	}

	verdict, err := rule.Evaluate(ctx, event)
	require.NoError(t, err)
	require.False(t, verdict.Approved)
	require.Equal(t, ReasonNoMatch, verdict.Reason)

	for i := 0; i < 2; i++ {
		require.NoError(t, eventRepo.Create(ctx, &entity.MissionEvent{
			ID:          int64(i + 1),
			UserID:      testutil.User1.ID,
			MissionSlug: "timeline_3_posts",
			EventType:   "post_created",
		}))
	}

	verdict, err = rule.Evaluate(ctx, event)
	require.NoError(t, err)
	require.True(t, verdict.Approved)
	require.Equal(t, 100, verdict.Score)
	require.Equal(t, ReasonEventCountOK, verdict.Reason)
}

func Test_Rule_Evaluate_EventCount_OtherEventType(t *testing.T) {
	ctx := testutil.MockContext(t)
	eventRepo := repository.NewMissionEventRepository()

	rule, err := NewRule(ctx, &entity.MissionRule{
		MissionSlug: "timeline_3_posts",
		RuleConfig: entity.Map{
			"event_count": map[string]any{"event_type": "post_created", "min": float64(1)},
		},
	}, eventRepo)
	require.NoError(t, err)

	require.NoError(t, eventRepo.Create(ctx, &entity.MissionEvent{
		ID:          1,
		UserID:      testutil.User1.ID,
		MissionSlug: "timeline_3_posts",
		EventType:   "comment_created",
	}))

	verdict, err := rule.Evaluate(ctx, Event{
		UserID:      testutil.User1.ID,
		MissionSlug: "timeline_3_posts",
		EventType:   "comment_created",
	})
	require.NoError(t, err)
	require.False(t, verdict.Approved)
}

func Test_Rule_Evaluate_CustomKey(t *testing.T) {
	ctx := testutil.MockContext(t)

	rule, err := NewRule(ctx, &entity.MissionRule{
		MissionSlug: "quiz_basico_ok",
		RuleConfig: entity.Map{
			"custom_key": map[string]any{"key": "passed", "equals": true},
		},
	}, repository.NewMissionEventRepository())
	require.NoError(t, err)

	verdict, err := rule.Evaluate(ctx, Event{Payload: map[string]any{"passed": true}})
	require.NoError(t, err)
	require.True(t, verdict.Approved)
	require.Equal(t, ReasonCustomOK, verdict.Reason)

	verdict, err = rule.Evaluate(ctx, Event{Payload: map[string]any{"passed": false}})
	require.NoError(t, err)
	require.False(t, verdict.Approved)

	verdict, err = rule.Evaluate(ctx, Event{Payload: map[string]any{}})
	require.NoError(t, err)
	require.False(t, verdict.Approved)
}

func Test_Rule_Evaluate_CustomKey_ObjectValue(t *testing.T) {
	ctx := testutil.MockContext(t)

	rule, err := NewRule(ctx, &entity.MissionRule{
		MissionSlug: "quiz_answers",
		RuleConfig: entity.Map{
			"custom_key": map[string]any{
				"key":    "answers",
				"equals": map[string]any{"q1": "a", "q2": "b"},
			},
		},
	}, repository.NewMissionEventRepository())
	require.NoError(t, err)

	// Uncomparable values must match structurally, not panic.
	verdict, err := rule.Evaluate(ctx, Event{Payload: map[string]any{
		"answers": map[string]any{"q2": "b", "q1": "a"},
	}})
	require.NoError(t, err)
	require.True(t, verdict.Approved)

	verdict, err = rule.Evaluate(ctx, Event{Payload: map[string]any{
		"answers": map[string]any{"q1": "a"},
	}})
	require.NoError(t, err)
	require.False(t, verdict.Approved)
}

func Test_Rule_Evaluate_FirstMatchWins(t *testing.T) {
	ctx := testutil.MockContext(t)
	eventRepo := repository.NewMissionEventRepository()

	// Both qr_scanned and custom_key would pass here; the canonical order
	// settles the verdict with the qr reason.
	rule, err := NewRule(ctx, &entity.MissionRule{
		MissionSlug: "combined",
		RuleConfig: entity.Map{
			"custom_key": map[string]any{"key": "passed", "equals": true},
			"qr_scanned": map[string]any{"required": true},
		},
	}, eventRepo)
	require.NoError(t, err)

	verdict, err := rule.Evaluate(ctx, Event{
		EventType: "qr_scanned",
		Payload:   map[string]any{"passed": true},
	})
	require.NoError(t, err)
	require.True(t, verdict.Approved)
	require.Equal(t, ReasonQROK, verdict.Reason)
}

func Test_Rule_Evaluate_GeoCheck(t *testing.T) {
	ctx := testutil.MockContext(t)

	rule, err := NewRule(ctx, &entity.MissionRule{
		MissionSlug: "presenca_evento",
		RuleConfig: entity.Map{
			"geo_check": map[string]any{"radius_m": float64(100)},
		},
	}, repository.NewMissionEventRepository())
	require.NoError(t, err)

	verdict, err := rule.Evaluate(ctx, Event{Payload: map[string]any{"geo_ok": true}})
	require.NoError(t, err)
	require.True(t, verdict.Approved)
	require.Equal(t, ReasonGeoOK, verdict.Reason)

	// Anything but a true boolean fails the geofence.
	verdict, err = rule.Evaluate(ctx, Event{Payload: map[string]any{"geo_ok": "yes"}})
	require.NoError(t, err)
	require.False(t, verdict.Approved)
}

package testutil

import "github.com/connectus-app/backend/internal/entity"

var (
	User1 = entity.User{
		Base: entity.Base{ID: "user1"},
		Name: "user1",
		Role: "user",
	}

	User2 = entity.User{
		Base: entity.Base{ID: "user2"},
		Name: "user2",
		Role: "user",
	}

	RealtimeFlag = entity.FeatureFlag{
		Base:      entity.Base{ID: "flag_missions_realtime"},
		Name:      "MISSIONS_REALTIME_ENABLED",
		IsEnabled: true,
	}

	TimelinePostsRule = entity.MissionRule{
		Base:        entity.Base{ID: "rule_timeline_3_posts"},
		MissionSlug: "timeline_3_posts",
		RuleName:    "3 posts na timeline",
		RuleConfig: entity.Map{
			"event_count": map[string]any{"event_type": "post_created", "min": float64(3)},
		},
		XPReward:    30,
		TokenReward: 5,
		IsActive:    true,
	}

	OnboardingQRRule = entity.MissionRule{
		Base:        entity.Base{ID: "rule_onboarding_qr"},
		MissionSlug: "onboarding_qr",
		RuleName:    "Escaneie o QR de boas-vindas",
		RuleConfig: entity.Map{
			"qr_scanned": map[string]any{"required": true},
		},
		XPReward:    20,
		TokenReward: 3,
		IsActive:    true,
	}

	QuizRule = entity.MissionRule{
		Base:        entity.Base{ID: "rule_quiz_basico"},
		MissionSlug: "quiz_basico_ok",
		RuleName:    "Passe no quiz básico",
		RuleConfig: entity.Map{
			"custom_key": map[string]any{"key": "passed", "equals": true},
		},
		XPReward:    25,
		TokenReward: 4,
		IsActive:    true,
	}

	PresenceRule = entity.MissionRule{
		Base:        entity.Base{ID: "rule_presenca_evento"},
		MissionSlug: "presenca_evento",
		RuleName:    "Presença no evento",
		RuleConfig: entity.Map{
			"geo_check": map[string]any{"radius_m": float64(100)},
		},
		XPReward:    40,
		TokenReward: 8,
		IsActive:    true,
	}

	CheckinMission = entity.DailyMission{
		Base:        entity.Base{ID: "daily_checkin"},
		Code:        "CHECKIN",
		Title:       "Check-in diário",
		Description: "Abra o app e faça o check-in",
		XPReward:    10,
		TokenReward: 2,
		IsActive:    true,
	}

	InviteMission = entity.DailyMission{
		Base:        entity.Base{ID: "daily_invite"},
		Code:        "INVITE",
		Title:       "Convide um amigo",
		Description: "Envie um convite para alguém",
		XPReward:    15,
		TokenReward: 3,
		IsActive:    true,
	}

	RetiredMission = entity.DailyMission{
		Base:        entity.Base{ID: "daily_retired"},
		Code:        "RETIRED",
		Title:       "Missão aposentada",
		XPReward:    99,
		TokenReward: 99,
		IsActive:    false,
	}
)

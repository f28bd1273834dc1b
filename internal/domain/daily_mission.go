package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/connectus-app/backend/internal/domain/completion"
	"github.com/connectus-app/backend/internal/model"
	"github.com/connectus-app/backend/internal/repository"
	"github.com/connectus-app/backend/pkg/dateutil"
	"github.com/connectus-app/backend/pkg/errorx"
	"github.com/connectus-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type DailyMissionDomain interface {
	Complete(ctx context.Context, req *model.CompleteDailyMissionRequest) (*model.CompleteDailyMissionResponse, error)
	GetList(ctx context.Context, req *model.GetDailyMissionsRequest) (*model.GetDailyMissionsResponse, error)
}

type dailyMissionDomain struct {
	dailyMissionRepo      repository.DailyMissionRepository
	missionCompletionRepo repository.MissionCompletionRepository
	guard                 *completion.Guard
}

func NewDailyMissionDomain(
	dailyMissionRepo repository.DailyMissionRepository,
	missionCompletionRepo repository.MissionCompletionRepository,
	guard *completion.Guard,
) *dailyMissionDomain {
	return &dailyMissionDomain{
		dailyMissionRepo:      dailyMissionRepo,
		missionCompletionRepo: missionCompletionRepo,
		guard:                 guard,
	}
}

func (d *dailyMissionDomain) Complete(
	ctx context.Context, req *model.CompleteDailyMissionRequest,
) (*model.CompleteDailyMissionResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty mission code")
	}

	mission, err := d.dailyMissionRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission %s", code)
		}

		xcontext.Logger(ctx).Errorf("Cannot get daily mission: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	result, err := d.guard.Complete(ctx, xcontext.RequestUserID(ctx), mission.ID,
		mission.XPReward, mission.TokenReward, "daily", nil)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete daily mission: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CompleteDailyMissionResponse{
		Completed:        true,
		AlreadyCompleted: result.AlreadyCompleted,
		Rewards:          model.Rewards{XP: result.XP, Tokens: result.Tokens},
		UserTotals:       model.UserTotals{XP: result.Totals.XP, Tokens: result.Totals.Tokens},
	}, nil
}

func (d *dailyMissionDomain) GetList(
	ctx context.Context, req *model.GetDailyMissionsRequest,
) (*model.GetDailyMissionsResponse, error) {
	missions, err := d.dailyMissionRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get daily missions: %v", err)
		return nil, errorx.Unknown
	}

	location, err := time.LoadLocation(xcontext.Configs(ctx).Missions.RewardTimezone)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load reward timezone: %v", err)
		return nil, errorx.Unknown
	}

	day := dateutil.Today(location)
	completions, err := d.missionCompletionRepo.GetByDay(ctx, xcontext.RequestUserID(ctx), day)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get completions: %v", err)
		return nil, errorx.Unknown
	}

	completedToday := map[string]bool{}
	for _, c := range completions {
		completedToday[c.MissionID] = true
	}

	clientMissions := []model.DailyMission{}
	for _, mission := range missions {
		clientMissions = append(clientMissions, model.DailyMission{
			ID:             mission.ID,
			Code:           mission.Code,
			Title:          mission.Title,
			Description:    mission.Description,
			XPReward:       mission.XPReward,
			TokenReward:    mission.TokenReward,
			CompletedToday: completedToday[mission.ID],
		})
	}

	return &model.GetDailyMissionsResponse{Missions: clientMissions, Day: day}, nil
}

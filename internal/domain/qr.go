package domain

import (
	"context"
	"errors"
	"time"

	"github.com/connectus-app/backend/internal/domain/completion"
	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/internal/model"
	"github.com/connectus-app/backend/internal/repository"
	"github.com/connectus-app/backend/pkg/errorx"
	"github.com/connectus-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QRDomain interface {
	Issue(ctx context.Context, req *model.IssueQRRequest) (*model.IssueQRResponse, error)
	Verify(ctx context.Context, req *model.VerifyQRRequest) (*model.VerifyQRResponse, error)
}

type qrDomain struct {
	dailyMissionRepo repository.DailyMissionRepository
	guard            *completion.Guard
}

func NewQRDomain(
	dailyMissionRepo repository.DailyMissionRepository,
	guard *completion.Guard,
) *qrDomain {
	return &qrDomain{dailyMissionRepo: dailyMissionRepo, guard: guard}
}

func (d *qrDomain) Issue(ctx context.Context, req *model.IssueQRRequest) (*model.IssueQRResponse, error) {
	if req.MissionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty mission id")
	}

	mission, err := d.dailyMissionRepo.GetByID(ctx, req.MissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission: %v", err)
		return nil, errorx.Unknown
	}

	if !mission.IsActive {
		return nil, errorx.New(errorx.NotFound, "Not found mission")
	}

	expiration := xcontext.Configs(ctx).Missions.QRToken.Expiration
	token, err := xcontext.TokenEngine(ctx).Generate(expiration, model.QRToken{MissionID: mission.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate qr token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.IssueQRResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(expiration).Format(time.RFC3339),
	}, nil
}

// Verify redeems a signed qr token. Expired, tampered and malformed tokens
// are indistinguishable to the caller.
func (d *qrDomain) Verify(ctx context.Context, req *model.VerifyQRRequest) (*model.VerifyQRResponse, error) {
	var qrToken model.QRToken
	if err := xcontext.TokenEngine(ctx).Verify(req.Token, &qrToken); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid QR token")
	}

	mission, err := d.dailyMissionRepo.GetByID(ctx, qrToken.MissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission: %v", err)
		return nil, errorx.Unknown
	}

	if !mission.IsActive {
		return nil, errorx.New(errorx.NotFound, "Not found mission")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// The raw token never reaches storage.
	result, err := d.guard.Complete(ctx, xcontext.RequestUserID(ctx), mission.ID,
		mission.XPReward, mission.TokenReward, "qr", entity.Map{"jwt": "masked"})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete mission by qr: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.VerifyQRResponse{
		Completed:        true,
		AlreadyCompleted: result.AlreadyCompleted,
		MissionID:        mission.ID,
		Rewards:          model.Rewards{XP: result.XP, Tokens: result.Tokens},
		UserTotals:       model.UserTotals{XP: result.Totals.XP, Tokens: result.Totals.Tokens},
	}, nil
}

package completion

import (
	"context"
	"errors"
	"time"

	"github.com/connectus-app/backend/internal/client"
	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/internal/repository"
	"github.com/connectus-app/backend/pkg/dateutil"
	"github.com/connectus-app/backend/pkg/xcontext"
	"github.com/google/uuid"
)

type Result struct {
	AlreadyCompleted bool
	Day              string
	XP               int64
	Tokens           int64
	Totals           client.BalanceTotals
}

// Guard grants a mission reward at most once per user and local day. It
// relies only on the completions unique index: the insert either lands or
// fails with a duplicate key, there is no read-then-write window.
type Guard struct {
	missionCompletionRepo repository.MissionCompletionRepository
	balance               client.UserBalance
}

func NewGuard(
	missionCompletionRepo repository.MissionCompletionRepository,
	balance client.UserBalance,
) *Guard {
	return &Guard{
		missionCompletionRepo: missionCompletionRepo,
		balance:               balance,
	}
}

// Complete records the completion and credits the reward. When the (user,
// mission, day) row already exists the result carries zero rewards and the
// current balance.
func (g *Guard) Complete(
	ctx context.Context,
	userID, missionID string,
	xp, tokens int64,
	proofType string,
	proofMeta entity.Map,
) (*Result, error) {
	location, err := time.LoadLocation(xcontext.Configs(ctx).Missions.RewardTimezone)
	if err != nil {
		return nil, err
	}

	day := dateutil.Today(location)
	record := &entity.MissionCompletion{
		Base:          entity.Base{ID: uuid.NewString()},
		UserID:        userID,
		MissionID:     missionID,
		Day:           day,
		ProofType:     proofType,
		ProofMeta:     proofMeta,
		XPAwarded:     xp,
		TokensAwarded: tokens,
		CompletedAt:   time.Now(),
	}

	if err := g.missionCompletionRepo.Create(ctx, record); err != nil {
		if !errors.Is(err, repository.ErrAlreadyCompleted) {
			return nil, err
		}

		totals, err := g.balance.Totals(ctx, userID)
		if err != nil {
			return nil, err
		}

		return &Result{AlreadyCompleted: true, Day: day, Totals: totals}, nil
	}

	if err := g.balance.Increase(ctx, userID, xp, tokens); err != nil {
		return nil, err
	}

	totals, err := g.balance.Totals(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Result{Day: day, XP: xp, Tokens: tokens, Totals: totals}, nil
}

package client

import (
	"context"

	"github.com/connectus-app/backend/internal/repository"
)

type BalanceTotals struct {
	XP     int64
	Tokens int64
}

// UserBalance grants rewards and reads totals. Kept behind an interface so
// the reward ledger could move out of the users table without touching the
// domains.
type UserBalance interface {
	Increase(ctx context.Context, userID string, xp, tokens int64) error
	Totals(ctx context.Context, userID string) (BalanceTotals, error)
}

type userBalance struct {
	userRepo repository.UserRepository
}

func NewUserBalance(userRepo repository.UserRepository) *userBalance {
	return &userBalance{userRepo: userRepo}
}

func (b *userBalance) Increase(ctx context.Context, userID string, xp, tokens int64) error {
	if xp == 0 && tokens == 0 {
		return nil
	}

	return b.userRepo.IncreaseBalance(ctx, userID, xp, tokens)
}

func (b *userBalance) Totals(ctx context.Context, userID string) (BalanceTotals, error) {
	user, err := b.userRepo.GetByID(ctx, userID)
	if err != nil {
		return BalanceTotals{}, err
	}

	return BalanceTotals{XP: user.XP, Tokens: user.TokenBalance}, nil
}

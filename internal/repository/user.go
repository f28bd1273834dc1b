package repository

import (
	"context"
	"errors"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	IncreaseBalance(ctx context.Context, userID string, xp, tokens int64) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) IncreaseBalance(ctx context.Context, userID string, xp, tokens int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", userID).
		Updates(map[string]any{
			"xp":            gorm.Expr("xp+?", xp),
			"token_balance": gorm.Expr("token_balance+?", tokens),
		})
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return errors.New("row affected is empty")
	}

	return nil
}

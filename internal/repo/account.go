package repo

import (
	"context"

	"github.com/jmehta/storefront/internal/models"
)

func (r *GormRepo) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	account := models.Account{}
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *GormRepo) CountAccountsByRole(ctx context.Context, role string) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Account{}).
		Where("role = ?", role).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepo) CreateAccount(ctx context.Context, account *models.Account) error {
	return r.DB.WithContext(ctx).Create(account).Error
}

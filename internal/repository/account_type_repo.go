package repository

import (
	"backend/internal/model"
	"context"

	"gorm.io/gorm"
)

// AccountTypeRepository defines data access for the imported chart of
// accounts.
type AccountTypeRepository interface {
	ReplaceAll(ctx context.Context, accountTypes []model.AccountType) error
	ListActive(ctx context.Context) ([]model.AccountType, error)
}

type accountTypeRepository struct {
	db *gorm.DB
}

func NewAccountTypeRepository(db *gorm.DB) AccountTypeRepository {
	return &accountTypeRepository{db: db}
}

// ReplaceAll swaps the whole table for the uploaded sheet in one
// transaction. Imports are full replacements, not merges.
func (r *accountTypeRepository) ReplaceAll(ctx context.Context, accountTypes []model.AccountType) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.AccountType{}).Error; err != nil {
			return err
		}
		if len(accountTypes) == 0 {
			return nil
		}
		return tx.Create(&accountTypes).Error
	})
}

func (r *accountTypeRepository) ListActive(ctx context.Context) ([]model.AccountType, error) {
	var accountTypes []model.AccountType
	err := GetDB(ctx, r.db).
		Preload("Parent").
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&accountTypes).Error
	return accountTypes, err
}

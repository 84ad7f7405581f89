package repository

import (
	"context"

	useraccessdomain "github.com/costvista/billquest/internal/useraccess/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() useraccessdomain.Repository {
	return &repo{}
}

func (r *repo) Replace(ctx context.Context, db *gorm.DB, mapping *useraccessdomain.UserAccessMapping) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		UpdateAll: true,
	}).Create(mapping).Error
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*useraccessdomain.UserAccessMapping, error) {
	var mapping useraccessdomain.UserAccessMapping
	err := db.WithContext(ctx).Raw(
		`SELECT email, payer_account_ids, updated_at FROM user_access_mappings WHERE email = ?`,
		email,
	).Scan(&mapping).Error
	if err != nil {
		return nil, err
	}
	if mapping.Email == "" {
		return nil, nil
	}
	return &mapping, nil
}

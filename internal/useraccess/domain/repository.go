package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Replace writes the mapping, overwriting any existing list for the
	// same email.
	Replace(ctx context.Context, db *gorm.DB, mapping *UserAccessMapping) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*UserAccessMapping, error)
}

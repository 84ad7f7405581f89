// Package domain maps user identities to the account scopes they may query.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ListSeparator joins account ids in the stored column; the upload format
// uses the same separator inside its payer_account_id cell.
const ListSeparator = ";"

// UserAccessMapping associates one email with an ordered list of payer
// account ids. Uploading a new mapping replaces the whole list.
type UserAccessMapping struct {
	Email           string    `gorm:"column:email;primaryKey"`
	PayerAccountIDs string    `gorm:"column:payer_account_ids"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

// TableName sets the database table name.
func (UserAccessMapping) TableName() string { return "user_access_mappings" }

// AccountIDs splits the stored list, order preserved, duplicates kept.
func (m UserAccessMapping) AccountIDs() []string {
	if m.PayerAccountIDs == "" {
		return []string{}
	}
	return strings.Split(m.PayerAccountIDs, ListSeparator)
}

// Result reports one mapping-file ingestion run.
type Result struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
	Total     int `json:"total"`
}

// Lookup is the point-lookup response for one email.
type Lookup struct {
	Email           string   `json:"email"`
	PayerAccountIDs []string `json:"payer_account_ids"`
}

var (
	ErrNotFound = errors.New("not_found")
)

type Service interface {
	ProcessFile(ctx context.Context, bucket, key string) (*Result, error)
	Lookup(ctx context.Context, email string) (*Lookup, error)
}

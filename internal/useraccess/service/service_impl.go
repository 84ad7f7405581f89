package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/costvista/billquest/internal/blob"
	"github.com/costvista/billquest/internal/ingestion/parser"
	useraccessdomain "github.com/costvista/billquest/internal/useraccess/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Blob blob.Store
	Repo useraccessdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	blob blob.Store
	repo useraccessdomain.Repository
}

func New(p Params) useraccessdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("useraccess.service"),
		blob: p.Blob,
		repo: p.Repo,
	}
}

// ProcessFile ingests one identity-to-scope CSV. Rows with missing
// columns, empty values or a malformed email are skipped, not errors;
// valid rows fully replace that email's account list. Re-delivery is
// safe because every row write is a full replace.
func (s *Service) ProcessFile(ctx context.Context, bucket, key string) (*useraccessdomain.Result, error) {
	log := s.log.With(zap.String("bucket", bucket), zap.String("key", key))

	data, err := s.blob.Fetch(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, useraccessdomain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch mapping file: %w", err)
	}

	table, err := parser.ParseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("parse mapping file: %w", err)
	}

	result := &useraccessdomain.Result{}
	for i, row := range table.Rows {
		rowNum := i + 2 // 1-based plus header row

		email, emailOK := row["email"]
		rawAccounts, accountsOK := row["payer_account_id"]
		if !emailOK || !accountsOK {
			log.Warn("row missing required columns", zap.Int("row", rowNum))
			result.Skipped++
			continue
		}

		email = strings.TrimSpace(email)
		rawAccounts = strings.TrimSpace(rawAccounts)
		if email == "" || rawAccounts == "" {
			log.Warn("row has empty values", zap.Int("row", rowNum))
			result.Skipped++
			continue
		}
		if !strings.Contains(email, "@") {
			log.Warn("row has malformed email", zap.Int("row", rowNum), zap.String("email", email))
			result.Skipped++
			continue
		}

		accountIDs := strings.Split(rawAccounts, useraccessdomain.ListSeparator)
		for j := range accountIDs {
			accountIDs[j] = strings.TrimSpace(accountIDs[j])
		}

		mapping := &useraccessdomain.UserAccessMapping{
			Email:           email,
			PayerAccountIDs: strings.Join(accountIDs, useraccessdomain.ListSeparator),
			UpdatedAt:       time.Now().UTC(),
		}
		if err := s.repo.Replace(ctx, s.db, mapping); err != nil {
			log.Error("replace mapping", zap.Int("row", rowNum), zap.Error(err))
			result.Errors++
			continue
		}
		result.Processed++
	}

	result.Total = result.Processed + result.Skipped + result.Errors
	log.Info("mapping file ingested",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.Errors),
	)
	return result, nil
}

func (s *Service) Lookup(ctx context.Context, email string) (*useraccessdomain.Lookup, error) {
	mapping, err := s.repo.FindByEmail(ctx, s.db, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, useraccessdomain.ErrNotFound
	}
	return &useraccessdomain.Lookup{
		Email:           mapping.Email,
		PayerAccountIDs: mapping.AccountIDs(),
	}, nil
}

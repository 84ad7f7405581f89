package service

import (
	"context"
	"sort"
	"strings"

	billingdomain "github.com/costvista/billquest/internal/billing/domain"
	"github.com/costvista/billquest/internal/observability/metrics"
	querydomain "github.com/costvista/billquest/internal/query/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    billingdomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    billingdomain.Repository
	metrics *metrics.Metrics
}

func New(p Params) querydomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("query.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Run(ctx context.Context, req querydomain.Request) ([]billingdomain.BillingRecord, error) {
	queryType := strings.TrimSpace(req.QueryType)
	if queryType == "" {
		queryType = querydomain.QueryTypeAccount
	}

	switch queryType {
	case querydomain.QueryTypeAccount:
		s.countQuery(querydomain.QueryTypeAccount)
		return s.byAccount(ctx, req)
	case querydomain.QueryTypeDate:
		s.countQuery(querydomain.QueryTypeDate)
		return s.byDate(ctx, req)
	case querydomain.QueryTypeInvoice:
		s.countQuery(querydomain.QueryTypeInvoice)
		return s.byInvoice(ctx, req)
	default:
		return nil, querydomain.UnknownQueryTypeError(queryType)
	}
}

// byAccount fans out over the comma-separated account ids and
// concatenates the per-id results. An invoiceId or date parameter narrows
// each lookup through the matching secondary access path.
func (s *Service) byAccount(ctx context.Context, req querydomain.Request) ([]billingdomain.BillingRecord, error) {
	if strings.TrimSpace(req.AccountID) == "" {
		return nil, querydomain.ErrMissingAccountID
	}

	var out []billingdomain.BillingRecord
	for _, accountID := range strings.Split(req.AccountID, ",") {
		accountID = strings.TrimSpace(accountID)
		if accountID == "" {
			continue
		}

		var (
			records []billingdomain.BillingRecord
			err     error
		)
		switch {
		case strings.TrimSpace(req.InvoiceID) != "":
			records, err = s.repo.FindByInvoice(ctx, s.db, strings.TrimSpace(req.InvoiceID))
			records = filterAccount(records, accountID)
		case strings.TrimSpace(req.Date) != "":
			records, err = s.repo.FindByDate(ctx, s.db, strings.TrimSpace(req.Date), "")
			records = filterAccount(records, accountID)
		default:
			records, err = s.repo.FindByAccount(ctx, s.db, accountID)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

func (s *Service) byDate(ctx context.Context, req querydomain.Request) ([]billingdomain.BillingRecord, error) {
	date := strings.TrimSpace(req.Date)
	if date == "" {
		return nil, querydomain.ErrMissingDate
	}
	return s.repo.FindByDate(ctx, s.db, date, strings.TrimSpace(req.Product))
}

func (s *Service) byInvoice(ctx context.Context, req querydomain.Request) ([]billingdomain.BillingRecord, error) {
	invoiceID := strings.TrimSpace(req.InvoiceID)
	if invoiceID == "" {
		return nil, querydomain.ErrMissingInvoiceID
	}
	return s.repo.FindByInvoice(ctx, s.db, invoiceID)
}

func (s *Service) InvoiceIDs(ctx context.Context, accountID string) ([]string, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, querydomain.ErrMissingAccountID
	}
	ids, err := s.repo.DistinctInvoiceIDs(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func filterAccount(records []billingdomain.BillingRecord, accountID string) []billingdomain.BillingRecord {
	out := records[:0]
	for _, r := range records {
		if r.PayerAccountID == accountID {
			out = append(out, r)
		}
	}
	return out
}

func (s *Service) countQuery(queryType string) {
	if s.metrics == nil {
		return
	}
	s.metrics.QueriesTotal.WithLabelValues(queryType).Inc()
}

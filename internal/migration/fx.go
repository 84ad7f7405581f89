package migration

import (
	billingdomain "github.com/costvista/billquest/internal/billing/domain"
	"github.com/costvista/billquest/internal/config"
	useraccessdomain "github.com/costvista/billquest/internal/useraccess/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// The versioned migrations target postgres; other dialects
			// (sqlite for local runs) fall back to schema sync.
			return conn.AutoMigrate(
				&billingdomain.BillingRecord{},
				&useraccessdomain.UserAccessMapping{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)

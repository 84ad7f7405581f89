package main

import (
	"github.com/costvista/billquest/internal/billing"
	"github.com/costvista/billquest/internal/blob"
	"github.com/costvista/billquest/internal/config"
	"github.com/costvista/billquest/internal/ingestion"
	"github.com/costvista/billquest/internal/listener"
	"github.com/costvista/billquest/internal/migration"
	"github.com/costvista/billquest/internal/observability"
	"github.com/costvista/billquest/internal/useraccess"
	"github.com/costvista/billquest/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
		blob.Module,

		billing.Module,
		ingestion.Module,
		useraccess.Module,
		listener.Module,
	)
	app.Run()
}

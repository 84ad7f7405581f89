package main

import (
	"github.com/costvista/billquest/internal/billing"
	"github.com/costvista/billquest/internal/blob"
	"github.com/costvista/billquest/internal/config"
	"github.com/costvista/billquest/internal/ingestion"
	"github.com/costvista/billquest/internal/migration"
	"github.com/costvista/billquest/internal/observability"
	"github.com/costvista/billquest/internal/query"
	"github.com/costvista/billquest/internal/server"
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
		query.Module,
		useraccess.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

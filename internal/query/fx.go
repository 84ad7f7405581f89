package query

import (
	"github.com/costvista/billquest/internal/query/service"
	"go.uber.org/fx"
)

var Module = fx.Module("query.service",
	fx.Provide(service.New),
)

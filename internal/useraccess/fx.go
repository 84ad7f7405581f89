package useraccess

import (
	"github.com/costvista/billquest/internal/useraccess/repository"
	"github.com/costvista/billquest/internal/useraccess/service"
	"go.uber.org/fx"
)

var Module = fx.Module("useraccess.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package billing

import (
	"github.com/costvista/billquest/internal/billing/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.store",
	fx.Provide(repository.Provide),
)

package listener

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("listener",
	fx.Provide(NewWorker),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, w *Worker) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			w.Stop()
			return nil
		},
	})
}

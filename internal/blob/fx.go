package blob

import (
	"go.uber.org/fx"
)

var Module = fx.Module("blob",
	fx.Provide(
		NewMinioClient,
		NewMinioStore,
		func(s *MinioStore) Store { return s },
	),
)

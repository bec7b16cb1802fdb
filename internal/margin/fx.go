package margin

import "go.uber.org/fx"

var Module = fx.Module("margin",
	fx.Provide(NewThresholdsHolder),
	fx.Provide(NewService),
)

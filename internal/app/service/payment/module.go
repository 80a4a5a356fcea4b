package payment

import "go.uber.org/fx"

// Module exposes the reconciliation engine via Fx.
var Module = fx.Options(
	fx.Provide(newGateway),
	fx.Provide(NewEngine),
)

package service

import (
	"context"

	"catena/internal/client/cicero"
)

// RulesService is the slice of the cicero engine the lifecycle engine needs.
// Both calls are blocking, single-attempt network operations; the engine treats
// any transport or decode failure as a ServiceError and aborts the enclosing
// operation without mutating state.
type RulesService interface {
	CheckLateSupply(ctx context.Context, check cicero.LateSupplyCheck) (cicero.LateSupplyResult, error)
	CheckDelivery(ctx context.Context, check cicero.DeliveryCheck) (cicero.DeliveryResult, error)
}

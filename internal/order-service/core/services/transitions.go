package services

import "freightflow/internal/order-service/core/domain/model"

// Fulfillment moves the supplier may apply to a ConfirmedOrder. Each
// status has exactly one forward move; delivered and cancelled are
// terminal.
var confirmedAdvances = map[string]string{
	model.ConfirmedAssigned:  model.ConfirmedPickedUp,
	model.ConfirmedPickedUp:  model.ConfirmedInTransit,
	model.ConfirmedInTransit: model.ConfirmedDelivered,
}

func canAdvance(from, to string) bool {
	next, ok := confirmedAdvances[from]
	return ok && next == to
}

func canCancelConfirmed(from string) bool {
	return !model.IsTerminalConfirmedStatus(from)
}

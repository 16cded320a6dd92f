package errors

import (
	pkgerrors "github.com/wekeepgrowing/charge-orchestrator/pkg/errors"
)

var (
	// ErrCardNotFound indicates a card index outside the stored list
	ErrCardNotFound = pkgerrors.NewAppError(pkgerrors.ErrInvalidArgument, "card not found", nil)

	// ErrCustomerRecordNotFound indicates an update for a user without a record
	ErrCustomerRecordNotFound = pkgerrors.NewAppError(pkgerrors.ErrNotFound, "customer record not found", nil)

	// ErrOrderNotFound indicates that the ledger has no such order
	ErrOrderNotFound = pkgerrors.NewAppError(pkgerrors.ErrNotFound, "order not found", nil)

	// ErrOrderAlreadyPaid indicates a checkout for an order that was charged
	ErrOrderAlreadyPaid = pkgerrors.NewAppError(pkgerrors.ErrConflict, "order has already been paid", nil)

	// ErrOrderNotOwned indicates an order that belongs to another user
	ErrOrderNotOwned = pkgerrors.NewAppError(pkgerrors.ErrUnauthorized, "order does not belong to user", nil)
)

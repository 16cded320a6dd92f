package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
	pkgerrors "github.com/wekeepgrowing/charge-orchestrator/pkg/errors"
)

// CustomerNotFoundError is returned when the user has no stored payment
// method to charge.
type CustomerNotFoundError struct {
	UserID string
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("no stored payment method for user %s", e.UserID)
}

func (e *CustomerNotFoundError) Code() string  { return pkgerrors.ErrPaymentRequired }
func (e *CustomerNotFoundError) Unwrap() error { return nil }

func NewCustomerNotFoundError(userID string) *CustomerNotFoundError {
	return &CustomerNotFoundError{UserID: userID}
}

// InvalidAmountError is returned for a negative explicit amount.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid charge amount %s", e.Amount.String())
}

func (e *InvalidAmountError) Code() string  { return pkgerrors.ErrInvalidArgument }
func (e *InvalidAmountError) Unwrap() error { return nil }

func NewInvalidAmountError(amount decimal.Decimal) *InvalidAmountError {
	return &InvalidAmountError{Amount: amount}
}

// ProcessorRequestError covers every failed processor round-trip: network
// errors, timeouts, declines and responses without a charge id.
type ProcessorRequestError struct {
	Op string
	// ProcessorErrorCode is the processor's own error code, if any.
	ProcessorErrorCode string
	HTTPStatus         int
	// UserMessage is safe to show the customer, e.g. a decline reason.
	UserMessage string
	Err         error
}

func (e *ProcessorRequestError) Error() string {
	msg := fmt.Sprintf("processor %s failed", e.Op)
	if e.ProcessorErrorCode != "" {
		msg += " (" + e.ProcessorErrorCode + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProcessorRequestError) Code() string  { return pkgerrors.ErrProcessor }
func (e *ProcessorRequestError) Unwrap() error { return e.Err }

func NewProcessorRequestError(op string, err error) *ProcessorRequestError {
	return &ProcessorRequestError{Op: op, Err: err}
}

// LedgerInconsistencyError is returned when order data cannot be trusted,
// e.g. an order without an owning user.
type LedgerInconsistencyError struct {
	OrderID string
	Detail  string
}

func (e *LedgerInconsistencyError) Error() string {
	return fmt.Sprintf("order %s is inconsistent: %s", e.OrderID, e.Detail)
}

func (e *LedgerInconsistencyError) Code() string  { return pkgerrors.ErrInternal }
func (e *LedgerInconsistencyError) Unwrap() error { return nil }

func NewLedgerInconsistencyError(orderID, detail string) *LedgerInconsistencyError {
	return &LedgerInconsistencyError{OrderID: orderID, Detail: detail}
}

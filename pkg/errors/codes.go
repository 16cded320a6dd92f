package errors

// Error codes shared by the domain and transport layers.
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"

	// ErrProcessor marks a failed round-trip to the card processor:
	// network errors, declines and 4xx/5xx responses alike.
	ErrProcessor = "PROCESSOR_ERROR"
	// ErrPaymentRequired marks a charge that could not be attempted because
	// the customer has no usable stored payment method.
	ErrPaymentRequired = "PAYMENT_REQUIRED"
)

package errors

import "net/http"

// CodePair maps an error code onto its HTTP status and gRPC code.
type CodePair struct {
	HTTPStatus int
	GRPCCode   int
}

var codeMapping = map[string]CodePair{
	ErrInternal:        {http.StatusInternalServerError, 13},
	ErrNotFound:        {http.StatusNotFound, 5},
	ErrInvalidArgument: {http.StatusBadRequest, 3},
	ErrUnauthenticated: {http.StatusUnauthorized, 16},
	ErrUnauthorized:    {http.StatusForbidden, 7},
	ErrConflict:        {http.StatusConflict, 6},
	ErrTimeout:         {http.StatusGatewayTimeout, 4},
	ErrNotImplemented:  {http.StatusNotImplemented, 12},
	ErrProcessor:       {http.StatusBadGateway, 14},
	ErrPaymentRequired: {http.StatusPaymentRequired, 9},
}

// GetCodeMapping returns the HTTP status and gRPC code for an error code.
// Unknown codes map to Internal.
func GetCodeMapping(code string) (int, int) {
	if pair, ok := codeMapping[code]; ok {
		return pair.HTTPStatus, pair.GRPCCode
	}
	return http.StatusInternalServerError, 13
}

package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	pkgerrors "github.com/wekeepgrowing/charge-orchestrator/pkg/errors"
	"go.uber.org/zap"
)

// toHTTPError maps domain errors onto echo errors. Declines carry a message
// meant for the customer and are answered with 402.
func toHTTPError(logger *zap.Logger, err error) error {
	var procErr *domainErrors.ProcessorRequestError
	if errors.As(err, &procErr) && procErr.UserMessage != "" {
		return echo.NewHTTPError(http.StatusPaymentRequired, procErr.UserMessage)
	}

	pkgerrors.LogError(logger, err, "Request failed")
	return pkgerrors.ToHTTPError(err)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}

package apicontrollers

import (
	"net/http"

	"github.com/drujensen/wearables/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const internalServerError = "Internal server error"

// errorStatus maps a domain error onto a status code and a client-safe message.
func errorStatus(err error) (int, string) {
	switch e := err.(type) {
	case *errors.ValidationError:
		return http.StatusBadRequest, e.Error()
	case *errors.NotFoundError:
		return http.StatusNotFound, e.Error()
	case *errors.TimeoutError:
		return http.StatusGatewayTimeout, e.Error()
	case *errors.UnavailableError:
		return http.StatusInternalServerError, e.Error()
	case *errors.ToolLoopError:
		return http.StatusInternalServerError, e.Error()
	case *errors.CanceledError:
		return http.StatusInternalServerError, e.Error()
	default:
		return http.StatusInternalServerError, internalServerError
	}
}

func handleError(ctx echo.Context, logger *zap.Logger, err error) error {
	status, message := errorStatus(err)
	fields := []zap.Field{
		zap.String("path", ctx.Path()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Warn("Request rejected", fields...)
	}
	return ctx.JSON(status, map[string]any{
		"error": message,
	})
}

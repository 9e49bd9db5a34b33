package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/generated/servers"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var errNotAuthenticated = errors.New("could not validate credentials")

// statusFor maps an application error to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, queries.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, errNotAuthenticated):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, "Not authorized to access this order"
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, "Order not found"
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *Server) respondError(ctx echo.Context, err error) error {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"method", ctx.Request().Method,
			"route", ctx.Path(),
			"error", err,
		)
	}
	if status == http.StatusUnauthorized {
		ctx.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return ctx.JSON(status, servers.Error{
		Code:    int32(status),
		Message: message,
	})
}

func (s *Server) respondBadRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// NewErrorHandler renders errors that escape the handlers (unknown routes,
// malformed path parameters, panics recovered by middleware) as servers.Error.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "http_error_handler")

	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var status int
		var message string
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status, message = he.Code, fmt.Sprint(he.Message)
		} else {
			status, message = statusFor(err)
		}

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(ctx.Request().Context(), "Unhandled error",
				"method", ctx.Request().Method,
				"path", ctx.Request().URL.Path,
				"error", err,
			)
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(status)
		} else {
			err = ctx.JSON(status, servers.Error{Code: int32(status), Message: message})
		}
		if err != nil {
			logger.ErrorContext(ctx.Request().Context(), "Failed to write error response", "error", err)
		}
	}
}

package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

// fail maps a service error to a response. form, when non-nil, is echoed
// back with validation errors so the client can refill its inputs.
func fail(c echo.Context, l *slog.Logger, event string, err error, form any) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		l.Warn(event, "status", 400, "reason", "validation failed", "error", err)
		body := map[string]any{"message": "validation failed", "errors": verr.Fields}
		if form != nil {
			body["form"] = form
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, service.ErrEmptyCart):
		l.Warn(event, "status", 400, "reason", "cart is empty")
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "cart is empty", "redirect": "/cart"})
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, conflictMessage(err))
	case errors.Is(err, service.ErrUnauthorized):
		l.Warn(event, "status", 401, "reason", "unauthorized")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", 403, "error", err)
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	default:
		l.Error(event, "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return "email is already registered"
	case errors.Is(err, service.ErrCartChanged):
		return "cart was changed by another request, please retry"
	case errors.Is(err, service.ErrCartOrdered):
		return "this cart has already been ordered"
	default:
		return "conflict"
	}
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", 400, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func parseID(c echo.Context, l *slog.Logger, event string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, badRequest(l, event, "id is not a uuid", err)
	}
	return id, nil
}

// principal reads the caller attached by the session middleware.
func principal(c echo.Context) (service.Principal, error) {
	return service.PrincipalFromClaims(middleware.ClaimsFrom(c))
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHTTP) Preview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.preview")

	crt, total, err := h.Svc.Preview(ctx, session.ID(c))
	if err != nil {
		return fail(c, l, "checkout_preview_error", err, nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": crt.Items, "total": total})
}

func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place_order")

	p, err := principal(c)
	if err != nil {
		l.Warn("checkout_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "checkout_error", "invalid body", err)
	}

	order, err := h.Svc.Checkout(ctx, session.ID(c), p, req.Command())
	if err != nil {
		return fail(c, l, "checkout_error", err, req)
	}

	l.Info("checkout_success", "order_id", order.ID, "user_id", p.UserID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "orderId": order.ID})
}

func (h *CheckoutHTTP) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	p, err := principal(c)
	if err != nil {
		l.Warn("orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	orders, err := h.Svc.History(ctx, p.UserID)
	if err != nil {
		return fail(c, l, "orders_error", err, nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

func (h *CheckoutHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get")

	p, err := principal(c)
	if err != nil {
		l.Warn("get_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	id, err := parseID(c, l, "get_order_error")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, id, p)
	if err != nil {
		return fail(c, l, "get_order_error", err, nil)
	}
	return c.JSON(http.StatusOK, order)
}

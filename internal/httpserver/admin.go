package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AdminHTTP struct {
	Svc   *service.AdminService
	Inbox *service.InboxService
}

func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	d, err := h.Svc.Dashboard(ctx)
	if err != nil {
		return fail(c, l, "dashboard_error", err, nil)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminHTTP) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders")

	res, err := h.Svc.GetOrders(ctx, util.ParseIntDefault(c.QueryParam("page"), 1))
	if err != nil {
		return fail(c, l, "admin_orders_error", err, nil)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminHTTP) SetOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.order_status")

	id, err := parseID(c, l, "order_status_error")
	if err != nil {
		return err
	}
	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "order_status_error", "invalid body", err)
	}

	order, err := h.Svc.SetOrderStatus(ctx, id, req.Status)
	if err != nil {
		return fail(c, l, "order_status_error", err, nil)
	}

	l.Info("order_status_success", "order_id", id, "order_status", order.Status)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "order": order})
}

func (h *AdminHTTP) SetPaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.payment_status")

	id, err := parseID(c, l, "payment_status_error")
	if err != nil {
		return err
	}
	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "payment_status_error", "invalid body", err)
	}

	order, err := h.Svc.SetPaymentStatus(ctx, id, req.Payment())
	if err != nil {
		return fail(c, l, "payment_status_error", err, nil)
	}

	l.Info("payment_status_success", "order_id", id, "payment_status", order.PaymentStatus)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "order": order})
}

func (h *AdminHTTP) Messages(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.messages")

	res, err := h.Inbox.GetMessages(ctx, util.ParseIntDefault(c.QueryParam("page"), 1))
	if err != nil {
		return fail(c, l, "admin_messages_error", err, nil)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminHTTP) SetMessageStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.message_status")

	id, err := parseID(c, l, "message_status_error")
	if err != nil {
		return err
	}
	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "message_status_error", "invalid body", err)
	}

	msg, err := h.Inbox.SetStatus(ctx, id, req.Status)
	if err != nil {
		return fail(c, l, "message_status_error", err, nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": msg})
}

func (h *AdminHTTP) DeleteMessage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_message")

	id, err := parseID(c, l, "message_delete_error")
	if err != nil {
		return err
	}
	if err := h.Inbox.Delete(ctx, id); err != nil {
		return fail(c, l, "message_delete_error", err, nil)
	}

	l.Info("message_delete_success", "message_id", id)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

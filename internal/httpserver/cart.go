package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	crt, err := h.Svc.Get(ctx, session.ID(c))
	if err != nil {
		return fail(c, l, "get_cart_error", err, nil)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items":     crt.Items,
		"total":     crt.Total(),
		"cartCount": crt.Count(),
	})
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart_error", "invalid body", err)
	}
	productID, err := req.Product()
	if err != nil {
		return fail(c, l, "add_to_cart_error", err, nil)
	}
	qty, err := req.AddQuantity()
	if err != nil {
		return fail(c, l, "add_to_cart_error", err, nil)
	}

	count, err := h.Svc.Add(ctx, session.ID(c), productID, qty)
	if err != nil {
		return fail(c, l, "add_to_cart_error", err, nil)
	}

	l.Info("add_to_cart_success", "product_id", productID, "quantity", qty)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "cartCount": count})
}

func (h *CartHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_cart_error", "invalid body", err)
	}
	productID, err := req.Product()
	if err != nil {
		return fail(c, l, "update_cart_error", err, nil)
	}
	qty, err := req.UpdateQuantity()
	if err != nil {
		return fail(c, l, "update_cart_error", err, nil)
	}

	count, err := h.Svc.Update(ctx, session.ID(c), productID, qty)
	if err != nil {
		return fail(c, l, "update_cart_error", err, nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "cartCount": count})
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "remove_from_cart_error", "invalid body", err)
	}
	productID, err := req.Product()
	if err != nil {
		return fail(c, l, "remove_from_cart_error", err, nil)
	}

	count, err := h.Svc.Remove(ctx, session.ID(c), productID)
	if err != nil {
		return fail(c, l, "remove_from_cart_error", err, nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "cartCount": count})
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type ContactHTTP struct {
	Svc *service.InboxService
}

func (h *ContactHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.submit")

	var req transport.ContactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "contact_error", "invalid body", err)
	}

	msg, err := h.Svc.Submit(ctx, req.Command())
	if err != nil {
		return fail(c, l, "contact_error", err, req)
	}

	l.Info("contact_success", "message_id", msg.ID)
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Thank you for your message. We will get back to you soon.",
	})
}

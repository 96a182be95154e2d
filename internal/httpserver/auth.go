package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Carts   service.CartService
	Session session.Config
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register_error", "invalid body", err)
	}

	res, err := h.Svc.Register(ctx, req.Command())
	if err != nil {
		return fail(c, l, "register_error", err, req.Echo())
	}

	h.setSession(c, res)
	l.Info("register_success", "user_id", res.User.ID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "redirect": res.Redirect()})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_error", "invalid body", err)
	}

	res, err := h.Svc.Login(ctx, req.Command())
	if err != nil {
		form := transport.LoginRequest{Email: req.Email}
		return fail(c, l, "login_error", err, form)
	}

	h.setSession(c, res)
	l.Info("login_success", "user_id", res.User.ID, "role", res.User.Role)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "redirect": res.Redirect()})
}

// Logout drops the session cookie, the cart of the current session and the
// session id itself.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if sid := session.ID(c); sid != "" && h.Carts != nil {
		if err := h.Carts.Clear(ctx, sid); err != nil {
			l.Error("logout_error", "reason", "cannot clear cart", "error", err)
		}
	}
	c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/"))
	session.Rotate(c, h.Session)

	l.Info("logout_success")
	return c.JSON(http.StatusOK, map[string]any{"success": true, "redirect": "/"})
}

func (h *AuthHTTP) setSession(c echo.Context, res *service.LoginResult) {
	c.SetCookie(tokens.CreateCookie(tokens.SessionCookie, res.Token, "/", res.ExpiresAt, h.Session.Secure))
}

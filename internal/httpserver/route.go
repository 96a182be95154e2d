package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/logging"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

// ReadyCheck reports whether a backing store is reachable.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Deps struct {
	Catalog  *CatalogHTTP
	Images   *ImagesHTTP
	Auth     *AuthHTTP
	Cart     *CartHTTP
	Checkout *CheckoutHTTP
	Contact  *ContactHTTP
	Admin    *AdminHTTP

	SessionSecret []byte
	Session       session.Config
	// CSRF is nil when the protection is disabled.
	CSRF  *csrf.Config
	Ready []ReadyCheck
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	e.Use(session.Middleware(d.Session))
	if d.CSRF != nil {
		e.Use(csrf.Middleware(*d.CSRF))
	}

	authMW := middleware.NewSessionMiddleware(d.SessionSecret)

	e.GET("/", d.Catalog.Home)
	e.GET("/products", d.Catalog.GetProducts)
	e.GET("/products/search", d.Catalog.SearchProducts)
	e.GET("/products/:id", d.Catalog.GetProduct)
	e.GET("/images/:name", d.Images.GetImage)
	e.POST("/contact", d.Contact.Submit)
	e.POST("/register", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.POST("/logout", d.Auth.Logout, authMW.Optional)

	requireAuth := authMW.RequireAuth
	e.GET("/cart", d.Cart.GetCart, requireAuth)
	e.POST("/cart/add", d.Cart.Add, requireAuth)
	e.POST("/cart/update", d.Cart.Update, requireAuth)
	e.POST("/cart/remove", d.Cart.Remove, requireAuth)
	e.GET("/checkout", d.Checkout.Preview, requireAuth)
	e.POST("/checkout", d.Checkout.Checkout, requireAuth)
	e.GET("/orders", d.Checkout.Orders, requireAuth)
	e.GET("/orders/:id", d.Checkout.GetOrder, requireAuth)

	admin := e.Group("/admin", authMW.RequireAdmin)
	admin.GET("", d.Admin.Dashboard)
	admin.GET("/orders", d.Admin.Orders)
	admin.POST("/orders/:id/status", d.Admin.SetOrderStatus)
	admin.POST("/orders/:id/payment", d.Admin.SetPaymentStatus)
	admin.GET("/products", d.Catalog.AdminProducts)
	admin.GET("/products/:id", d.Catalog.GetProduct)
	admin.POST("/products", d.Catalog.CreateProduct)
	admin.POST("/products/:id", d.Catalog.UpdateProduct)
	admin.POST("/products/:id/delete", d.Catalog.DeleteProduct)
	admin.GET("/messages", d.Admin.Messages)
	admin.POST("/messages/:id/status", d.Admin.SetMessageStatus)
	admin.POST("/messages/:id/delete", d.Admin.DeleteMessage)
}

func (d *Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	for _, rc := range d.Ready {
		if err := rc.Check(ctx); err != nil {
			logging.FromContext(ctx).Warn("not_ready", "status", 503, "dependency", rc.Name, "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "dependency": rc.Name})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

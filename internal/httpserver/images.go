package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/images"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type ImagesHTTP struct {
	Store images.Store
}

func (h *ImagesHTTP) GetImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "images.get")

	name := c.Param("name")
	if !images.ValidName(name) {
		l.Warn("get_image_error", "status", 404, "reason", "invalid name", "name", name)
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}

	data, contentType, err := h.Store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, images.ErrNotFound) || errors.Is(err, images.ErrInvalidName) {
			l.Warn("get_image_error", "status", 404, "name", name)
			return echo.NewHTTPError(http.StatusNotFound, "image not found")
		}
		l.Error("get_image_error", "status", 500, "name", name, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, contentType, data)
}

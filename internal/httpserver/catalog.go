package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) Home(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.home")

	featured, err := h.Svc.Featured(ctx)
	if err != nil {
		return fail(c, l, "home_error", err, nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"featuredProducts": featured})
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.GetProducts(ctx, page, size)
	if err != nil {
		return fail(c, l, "get_products_error", err, nil)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_products")

	q := c.QueryParam("q")
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.SearchProducts(ctx, q, page, size)
	if err != nil {
		return fail(c, l, "search_products_error", err, nil)
	}
	l.Debug("search_products_success", "q", q, "total", res.Meta.Total)
	return c.JSON(http.StatusOK, map[string]any{"query": q, "data": res.Data, "meta": res.Meta})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, err := parseID(c, l, "get_product_error")
	if err != nil {
		return err
	}
	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(c, l, "get_product_error", err, nil)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) AdminProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.products")

	products, err := h.Svc.AllProducts(ctx)
	if err != nil {
		return fail(c, l, "admin_products_error", err, nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"products": products})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_create_error", "invalid body", err)
	}
	img, err := imageUpload(c)
	if err != nil {
		return badRequest(l, "product_create_error", "cannot read image", err)
	}

	cmd, err := req.Command()
	if err != nil {
		return fail(c, l, "product_create_error", err, req)
	}
	product, err := h.Svc.CreateProduct(ctx, cmd, img)
	if err != nil {
		return fail(c, l, "product_create_error", err, req)
	}

	l.Info("product_create_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "product": product})
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_product")

	id, err := parseID(c, l, "product_update_error")
	if err != nil {
		return err
	}
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_update_error", "invalid body", err)
	}
	img, err := imageUpload(c)
	if err != nil {
		return badRequest(l, "product_update_error", "cannot read image", err)
	}

	cmd, err := req.Command()
	if err != nil {
		return fail(c, l, "product_update_error", err, req)
	}
	product, err := h.Svc.UpdateProduct(ctx, id, cmd, img)
	if err != nil {
		return fail(c, l, "product_update_error", err, req)
	}

	l.Info("product_update_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "product": product})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	id, err := parseID(c, l, "product_delete_error")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(c, l, "product_delete_error", err, nil)
	}

	l.Info("product_delete_success", "product_id", id)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// imageUpload returns the optional "image" file of a multipart request.
func imageUpload(c echo.Context) (*service.ImageUpload, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

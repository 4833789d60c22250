package httpserver

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/dathuynh/watch-store-api/internal/service"
	"github.com/dathuynh/watch-store-api/internal/transport"
	"github.com/dathuynh/watch-store-api/internal/util"
)

type ProductHandler struct {
	Catalog *service.CatalogService
}

func (h *ProductHandler) List(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := productFilterFromQuery(c)
	total, items, err := h.Catalog.ListProducts(c.Request().Context(), filter, offset, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return ok(c, http.StatusOK, "", map[string]any{
		"products": items,
		"meta":     util.Meta(page, limit, offset, total),
	})
}

func productFilterFromQuery(c echo.Context) transport.ProductFilter {
	f := transport.ProductFilter{
		Gender:    c.QueryParam("gender"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	if v := c.QueryParam("category_id"); v != "" {
		id := uint(util.ParseIntDefault(v, 0))
		if id > 0 {
			f.CategoryID = &id
		}
	}
	if v := c.QueryParam("brand_id"); v != "" {
		id := uint(util.ParseIntDefault(v, 0))
		if id > 0 {
			f.BrandID = &id
		}
	}
	if v := c.QueryParam("min_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MinPrice = &d
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MaxPrice = &d
		}
	}
	if v := c.QueryParam("is_featured"); v != "" {
		featured := v == "true" || v == "1"
		f.IsFeatured = &featured
	}
	return f
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.Catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "", map[string]any{"product": product})
}

// formImages pulls the optional multipart gallery. A plain JSON request
// has no multipart form, which is fine.
func formImages(c echo.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	product, err := h.Catalog.CreateProduct(c.Request().Context(), req, formImages(c, "images"))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusCreated, "product created", map[string]any{"product": product})
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	product, err := h.Catalog.UpdateProduct(c.Request().Context(), id, req, formImages(c, "images"))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "product updated", map[string]any{"product": product})
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "product deleted", nil)
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dathuynh/watch-store-api/internal/middleware/auth"
	"github.com/dathuynh/watch-store-api/internal/service"
	"github.com/dathuynh/watch-store-api/internal/transport"
)

type BrandHandler struct {
	Catalog *service.CatalogService
}

func (h *BrandHandler) List(c echo.Context) error {
	brands, err := h.Catalog.ListBrands(c.Request().Context(), !auth.IsAdmin(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "", map[string]any{"brands": brands})
}

func (h *BrandHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	brand, err := h.Catalog.GetBrand(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "", map[string]any{"brand": brand})
}

func (h *BrandHandler) Create(c echo.Context) error {
	var req transport.BrandRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	brand, err := h.Catalog.CreateBrand(c.Request().Context(), req, formFile(c, "logo"))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusCreated, "brand created", map[string]any{"brand": brand})
}

func (h *BrandHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.BrandRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	brand, err := h.Catalog.UpdateBrand(c.Request().Context(), id, req, formFile(c, "logo"))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "brand updated", map[string]any{"brand": brand})
}

func (h *BrandHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteBrand(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "brand deleted", nil)
}

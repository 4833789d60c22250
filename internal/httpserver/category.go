package httpserver

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dathuynh/watch-store-api/internal/middleware/auth"
	"github.com/dathuynh/watch-store-api/internal/service"
	"github.com/dathuynh/watch-store-api/internal/transport"
)

type CategoryHandler struct {
	Catalog *service.CatalogService
}

func formFile(c echo.Context, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}

func (h *CategoryHandler) List(c echo.Context) error {
	// Admins see inactive categories too.
	categories, err := h.Catalog.ListCategories(c.Request().Context(), !auth.IsAdmin(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "", map[string]any{"categories": categories})
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.Catalog.GetCategory(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "", map[string]any{"category": category})
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	category, err := h.Catalog.CreateCategory(c.Request().Context(), req, formFile(c, "image"))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusCreated, "category created", map[string]any{"category": category})
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	category, err := h.Catalog.UpdateCategory(c.Request().Context(), id, req, formFile(c, "image"))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "category updated", map[string]any{"category": category})
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "category deleted", nil)
}

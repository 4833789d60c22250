package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dathuynh/watch-store-api/internal/service"
	"github.com/dathuynh/watch-store-api/internal/util"
)

type SearchHandler struct {
	Service *service.SearchService
}

func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return fail(c, http.StatusUnprocessableEntity, "q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, products, err := h.Service.Search(c.Request().Context(), query, offset, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "", map[string]any{
		"products": products,
		"meta":     util.Meta(page, limit, offset, total),
	})
}

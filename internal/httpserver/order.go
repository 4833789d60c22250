package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dathuynh/watch-store-api/internal/middleware/auth"
	"github.com/dathuynh/watch-store-api/internal/service"
	"github.com/dathuynh/watch-store-api/internal/transport"
	"github.com/dathuynh/watch-store-api/internal/util"
)

type OrderHandler struct {
	Orders *service.OrderService
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	order, err := h.Orders.Create(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusCreated, "order placed", map[string]any{"order": order})
}

// List returns the caller's orders; admins see everyone's.
func (h *OrderHandler) List(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Orders.List(c.Request().Context(), auth.UserID(c), auth.IsAdmin(c), offset, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "", map[string]any{
		"orders": orders,
		"meta":   util.Meta(page, limit, offset, total),
	})
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.Orders.Get(c.Request().Context(), id, auth.UserID(c), auth.IsAdmin(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "", map[string]any{"order": order})
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.Orders.Cancel(c.Request().Context(), id, auth.UserID(c), auth.IsAdmin(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "order cancelled", map[string]any{"order": order})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return fail(c, http.StatusUnprocessableEntity, "status is required")
	}

	order, err := h.Orders.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "order status updated", map[string]any{"order": order})
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dathuynh/watch-store-api/internal/middleware/auth"
	"github.com/dathuynh/watch-store-api/internal/service"
	"github.com/dathuynh/watch-store-api/internal/transport"
)

type CartHandler struct {
	Cart *service.CartService
}

func (h *CartHandler) Get(c echo.Context) error {
	view, err := h.Cart.GetCart(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "", view)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == 0 {
		return fail(c, http.StatusUnprocessableEntity, "product_id is required")
	}

	item, err := h.Cart.AddItem(c.Request().Context(), auth.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusCreated, "item added to cart", map[string]any{"item": item})
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	item, err := h.Cart.UpdateItem(c.Request().Context(), auth.UserID(c), itemID, req.Quantity)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "cart item updated", map[string]any{"item": item})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Cart.RemoveItem(c.Request().Context(), auth.UserID(c), itemID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "cart item removed", nil)
}

func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.Cart.Clear(c.Request().Context(), auth.UserID(c)); err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "cart cleared", nil)
}

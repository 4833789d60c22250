package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dathuynh/watch-store-api/internal/models"
)

func (env *testEnv) addToCart(t *testing.T, token string, productID uint, quantity int) {
	t.Helper()
	rec, _ := env.doJSON(t, http.MethodPost, "/cart/items", token, map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func (env *testEnv) placeOrder(t *testing.T, token string) map[string]any {
	t.Helper()
	rec, envl := env.doJSON(t, http.MethodPost, "/orders", token, map[string]any{
		"shipping_address": "123 Main St",
		"shipping_phone":   "0123456789",
		"payment_method":   "cod",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return envl.Data.(map[string]any)["order"].(map[string]any)
}

func TestPlaceOrderRoute(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "buyer@example.com", "secret-password", models.RoleUser)
	token := env.login(t, "buyer@example.com", "secret-password")
	product := env.seedProduct(t, "CA-0810", 4000000, 10)

	env.addToCart(t, token, product.ID, 2)
	order := env.placeOrder(t, token)

	require.Equal(t, "PENDING", order["status"])
	require.Equal(t, "8000000", order["subtotal"])
	require.Equal(t, "30000", order["shipping_fee"])
	require.Equal(t, "8030000", order["total"])
	require.Regexp(t, `^ORD-`, order["order_number"])
	require.Len(t, order["items"].([]any), 1)

	// empty cart afterwards, so a second checkout fails
	rec, _ := env.doJSON(t, http.MethodPost, "/orders", token, map[string]any{
		"shipping_address": "123 Main St",
		"shipping_phone":   "0123456789",
		"payment_method":   "cod",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderListAndGetScoped(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice@example.com", "secret-password", models.RoleUser)
	env.createUser(t, "bob@example.com", "secret-password", models.RoleUser)
	env.createUser(t, "admin@example.com", "admin-password", models.RoleAdmin)
	alice := env.login(t, "alice@example.com", "secret-password")
	bob := env.login(t, "bob@example.com", "secret-password")
	admin := env.login(t, "admin@example.com", "admin-password")
	product := env.seedProduct(t, "CA-0810", 4000000, 10)

	env.addToCart(t, alice, product.ID, 1)
	order := env.placeOrder(t, alice)
	orderID := int(order["id"].(float64))

	rec, envl := env.doJSON(t, http.MethodGet, "/orders", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, envl.Data.(map[string]any)["orders"].([]any), 1)

	// bob sees neither the list entry nor the order itself
	rec, envl = env.doJSON(t, http.MethodGet, "/orders", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, envl.Data.(map[string]any)["orders"])
	rec, _ = env.doJSON(t, http.MethodGet, "/orders/"+itoa(orderID), bob, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// admin sees everything
	rec, envl = env.doJSON(t, http.MethodGet, "/orders", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, envl.Data.(map[string]any)["orders"].([]any), 1)
}

func TestCancelOrderRoute(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "buyer@example.com", "secret-password", models.RoleUser)
	token := env.login(t, "buyer@example.com", "secret-password")
	product := env.seedProduct(t, "CA-0810", 4000000, 10)

	env.addToCart(t, token, product.ID, 3)
	order := env.placeOrder(t, token)
	orderID := int(order["id"].(float64))

	rec, envl := env.doJSON(t, http.MethodPut, "/orders/"+itoa(orderID)+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cancelled := envl.Data.(map[string]any)["order"].(map[string]any)
	require.Equal(t, "CANCELLED", cancelled["status"])

	var restocked models.Product
	require.NoError(t, env.repo.DB.First(&restocked, product.ID).Error)
	require.Equal(t, 10, restocked.StockQuantity)

	rec, _ = env.doJSON(t, http.MethodPut, "/orders/"+itoa(orderID)+"/cancel", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatusRoute(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "buyer@example.com", "secret-password", models.RoleUser)
	env.createUser(t, "admin@example.com", "admin-password", models.RoleAdmin)
	token := env.login(t, "buyer@example.com", "secret-password")
	admin := env.login(t, "admin@example.com", "admin-password")
	product := env.seedProduct(t, "CA-0810", 4000000, 10)

	env.addToCart(t, token, product.ID, 1)
	order := env.placeOrder(t, token)
	orderID := int(order["id"].(float64))

	// customers cannot drive the status machine
	rec, _ := env.doJSON(t, http.MethodPut, "/orders/"+itoa(orderID)+"/status", token, map[string]any{
		"status": "PAID",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, envl := env.doJSON(t, http.MethodPut, "/orders/"+itoa(orderID)+"/status", admin, map[string]any{
		"status": "PAID",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "PAID", envl.Data.(map[string]any)["order"].(map[string]any)["status"])

	// illegal jump
	rec, _ = env.doJSON(t, http.MethodPut, "/orders/"+itoa(orderID)+"/status", admin, map[string]any{
		"status": "DELIVERED",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

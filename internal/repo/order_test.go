package repo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/models"
)

func newOrderSkeleton(number string) *models.Order {
	return &models.Order{
		OrderNumber:     number,
		Status:          models.OrderStatusPending,
		ShippingFee:     decimal.NewFromInt(30000),
		PaymentMethod:   models.PaymentMethodCOD,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: "123 Main St",
		ShippingPhone:   "0123456789",
	}
}

func TestPlaceOrder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "buyer@example.com")
	diver := seedProduct(t, r, "SKX-007", 5000000, 10)
	field := seedProduct(t, r, "SNK-809", 2000000, 5)
	seedCartWith(t, r, user.ID, map[*models.Product]int{diver: 2, field: 1})

	order := newOrderSkeleton("ORD-TEST00000001")
	require.NoError(t, r.PlaceOrder(ctx, user.ID, order))

	require.Equal(t, user.ID, order.UserID)
	require.True(t, order.Subtotal.Equal(decimal.NewFromInt(12000000)))
	require.True(t, order.Total.Equal(decimal.NewFromInt(12030000)))
	require.Len(t, order.Items, 2)

	require.Equal(t, 8, productStock(t, r, diver.ID))
	require.Equal(t, 4, productStock(t, r, field.ID))

	// checkout empties the cart
	cart, err := r.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)

	// snapshots carry name and price
	for _, item := range order.Items {
		require.NotEmpty(t, item.ProductName)
		require.True(t, item.Subtotal.Equal(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))))
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	r := newTestRepo(t)
	user := seedUser(t, r, "buyer@example.com")

	err := r.PlaceOrder(context.Background(), user.ID, newOrderSkeleton("ORD-TEST00000002"))
	require.ErrorIs(t, err, ErrCartEmpty)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "buyer@example.com")
	plenty := seedProduct(t, r, "SKX-007", 5000000, 10)
	scarce := seedProduct(t, r, "SNK-809", 2000000, 1)
	seedCartWith(t, r, user.ID, map[*models.Product]int{plenty: 2, scarce: 3})

	err := r.PlaceOrder(ctx, user.ID, newOrderSkeleton("ORD-TEST00000003"))
	require.ErrorIs(t, err, ErrInsufficientStock)

	// nothing moved: no order, stock untouched, cart intact
	var orderCount int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)
	require.Equal(t, 10, productStock(t, r, plenty.ID))
	require.Equal(t, 1, productStock(t, r, scarce.ID))

	cart, err := r.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
}

func TestPlaceOrderUsesCapturedPrice(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "buyer@example.com")
	product := seedProduct(t, r, "SKX-007", 5000000, 10)
	seedCartWith(t, r, user.ID, map[*models.Product]int{product: 1})

	// price raised after the item went into the cart
	require.NoError(t, r.DB.Model(product).Update("price", decimal.NewFromInt(9000000)).Error)

	order := newOrderSkeleton("ORD-TEST00000004")
	require.NoError(t, r.PlaceOrder(ctx, user.ID, order))
	require.True(t, order.Subtotal.Equal(decimal.NewFromInt(5000000)))
}

func TestPlaceOrderGuardedDecrement(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "buyer@example.com")
	product := seedProduct(t, r, "SKX-007", 5000000, 1)
	seedCartWith(t, r, user.ID, map[*models.Product]int{product: 1})

	// Simulate a competing checkout landing between the stock pre-check
	// and the decrement: drain the stock right after the order row is
	// created, inside the same transaction.
	require.NoError(t, r.DB.Callback().Create().After("gorm:create").Register("drain_stock", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "orders" {
			tx.Session(&gorm.Session{NewDB: true}).
				Exec("UPDATE products SET stock_quantity = 0 WHERE id = ?", product.ID)
		}
	}))
	defer func() {
		require.NoError(t, r.DB.Callback().Create().Remove("drain_stock"))
	}()

	err := r.PlaceOrder(ctx, user.ID, newOrderSkeleton("ORD-TEST00000011"))
	require.ErrorIs(t, err, ErrInsufficientStock)

	// the whole transaction rolled back, including the simulated drain
	var orderCount int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)
	require.Equal(t, 1, productStock(t, r, product.ID))

	cart, err := r.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
}

func TestPlaceOrderLastUnit(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice@example.com")
	bob := seedUser(t, r, "bob@example.com")
	product := seedProduct(t, r, "SKX-007", 5000000, 1)

	// both carts hold the last unit
	seedCartWith(t, r, alice.ID, map[*models.Product]int{product: 1})
	seedCartWith(t, r, bob.ID, map[*models.Product]int{product: 1})

	first := r.PlaceOrder(ctx, alice.ID, newOrderSkeleton("ORD-TEST00000012"))
	second := r.PlaceOrder(ctx, bob.ID, newOrderSkeleton("ORD-TEST00000013"))

	require.NoError(t, first)
	require.ErrorIs(t, second, ErrInsufficientStock)
	require.Equal(t, 0, productStock(t, r, product.ID))

	var orderCount int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orderCount).Error)
	require.EqualValues(t, 1, orderCount)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "buyer@example.com")
	product := seedProduct(t, r, "SKX-007", 5000000, 10)
	seedCartWith(t, r, user.ID, map[*models.Product]int{product: 4})

	order := newOrderSkeleton("ORD-TEST00000005")
	require.NoError(t, r.PlaceOrder(ctx, user.ID, order))
	require.Equal(t, 6, productStock(t, r, product.ID))

	cancelled, err := r.CancelOrder(ctx, order.ID, user.ID, false)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	require.Equal(t, 10, productStock(t, r, product.ID))

	// a second cancel is rejected and must not restore again
	_, err = r.CancelOrder(ctx, order.ID, user.ID, false)
	require.ErrorIs(t, err, ErrNotCancellable)
	require.Equal(t, 10, productStock(t, r, product.ID))
}

func TestCancelOrderOwnership(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, r, "owner@example.com")
	other := seedUser(t, r, "other@example.com")
	product := seedProduct(t, r, "SKX-007", 5000000, 10)
	seedCartWith(t, r, owner.ID, map[*models.Product]int{product: 1})

	order := newOrderSkeleton("ORD-TEST00000006")
	require.NoError(t, r.PlaceOrder(ctx, owner.ID, order))

	// someone else's order looks like it does not exist
	_, err := r.CancelOrder(ctx, order.ID, other.ID, false)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotCancellable)

	// an admin may cancel any order
	cancelled, err := r.CancelOrder(ctx, order.ID, other.ID, true)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "buyer@example.com")
	product := seedProduct(t, r, "SKX-007", 5000000, 10)
	seedCartWith(t, r, user.ID, map[*models.Product]int{product: 1})

	order := newOrderSkeleton("ORD-TEST00000007")
	require.NoError(t, r.PlaceOrder(ctx, user.ID, order))

	// PENDING cannot jump straight to SHIPPED
	_, err := r.UpdateOrderStatus(ctx, order.ID, models.OrderStatusShipped)
	require.ErrorIs(t, err, ErrInvalidTransition)

	for _, status := range []string{
		models.OrderStatusPaid,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		updated, err := r.UpdateOrderStatus(ctx, order.ID, status)
		require.NoError(t, err)
		require.Equal(t, status, updated.Status)
	}

	// DELIVERED is terminal
	_, err = r.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateOrderStatusCancelRestoresStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "buyer@example.com")
	product := seedProduct(t, r, "SKX-007", 5000000, 10)
	seedCartWith(t, r, user.ID, map[*models.Product]int{product: 3})

	order := newOrderSkeleton("ORD-TEST00000008")
	require.NoError(t, r.PlaceOrder(ctx, user.ID, order))
	require.Equal(t, 7, productStock(t, r, product.ID))

	_, err := r.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid)
	require.NoError(t, err)

	updated, err := r.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, updated.Status)
	require.Equal(t, 10, productStock(t, r, product.ID))
}

func TestListOrdersScoped(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice@example.com")
	bob := seedUser(t, r, "bob@example.com")
	product := seedProduct(t, r, "SKX-007", 5000000, 10)

	seedCartWith(t, r, alice.ID, map[*models.Product]int{product: 1})
	require.NoError(t, r.PlaceOrder(ctx, alice.ID, newOrderSkeleton("ORD-TEST00000009")))
	seedCartWith(t, r, bob.ID, map[*models.Product]int{product: 1})
	require.NoError(t, r.PlaceOrder(ctx, bob.ID, newOrderSkeleton("ORD-TEST00000010")))

	total, orders, err := r.ListOrders(ctx, alice.ID, false, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	require.Equal(t, alice.ID, orders[0].UserID)

	total, orders, err = r.ListOrders(ctx, alice.ID, true, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, orders, 2)
}

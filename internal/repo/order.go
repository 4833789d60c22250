package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/models"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// orderScope applies the ownership filter at query time, so foreign
// orders are indistinguishable from missing ones for non-admins.
func orderScope(q *gorm.DB, userID uint, isAdmin bool) *gorm.DB {
	if !isAdmin {
		q = q.Where("user_id = ?", userID)
	}
	return q
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint, userID uint, isAdmin bool) (*models.Order, error) {
	var order models.Order
	q := orderScope(r.DB.WithContext(ctx), userID, isAdmin)
	if err := q.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, isAdmin bool, offset, limit int) (int64, []models.Order, error) {
	q := orderScope(r.DB.WithContext(ctx).Model(&models.Order{}), userID, isAdmin)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// PlaceOrder converts the user's cart into the given order skeleton in
// one all-or-nothing transaction: stock check per line, item snapshot,
// guarded stock decrement, cart emptied. The order comes in with its
// number, fee and shipping fields set; subtotal, total and items are
// filled here from the cart.
func (r *GormRepo) PlaceOrder(ctx context.Context, userID uint, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartEmpty
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Preload("Product").
			Where("cart_id = ?", cart.ID).
			Order("id ASC").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		for _, item := range items {
			if item.Product == nil {
				return fmt.Errorf("%w: product %d no longer exists", ErrInsufficientStock, item.ProductID)
			}
			if item.Product.StockQuantity < item.Quantity {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, item.Product.Name)
			}
		}

		subtotal := decimal.Zero
		for _, item := range items {
			subtotal = subtotal.Add(item.Price.Mul(decimalFromInt(item.Quantity)))
		}

		order.UserID = userID
		order.Subtotal = subtotal
		order.Total = subtotal.Add(order.ShippingFee)
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, item := range items {
			orderItem := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Quantity:    item.Quantity,
				Price:       item.Price,
				Subtotal:    item.Price.Mul(decimalFromInt(item.Quantity)),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, orderItem)

			// The guarded decrement is what makes the earlier check
			// authoritative: a concurrent checkout that drained the
			// stock in between affects zero rows and aborts us.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, item.Product.Name)
			}
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
}

// CancelOrder restores the quantities recorded on the order items and
// marks the order cancelled, in one transaction. Only PENDING and PAID
// orders qualify.
func (r *GormRepo) CancelOrder(ctx context.Context, id uint, userID uint, isAdmin bool) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := orderScope(tx, userID, isAdmin)
		if err := q.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}
		if !models.Cancellable(order.Status) {
			return ErrNotCancellable
		}
		if err := restoreStock(tx, order.Items); err != nil {
			return err
		}
		order.Status = models.OrderStatusCancelled
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", models.OrderStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus applies an admin transition. Moving to CANCELLED
// goes through the same stock restore as a customer cancellation.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, newStatus string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}
		if !models.CanTransition(order.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
		}
		if newStatus == models.OrderStatusCancelled {
			if err := restoreStock(tx, order.Items); err != nil {
				return err
			}
		}
		order.Status = newStatus
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func restoreStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		res := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}

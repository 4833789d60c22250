package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/models"
	"github.com/dathuynh/watch-store-api/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

type CartView struct {
	Cart       *models.Cart    `json:"cart"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	ItemsCount int             `json:"items_count"`
}

// GetCart fetches or lazily creates the user's cart. Subtotal uses the
// price captured on each line at add time, matching what checkout will
// charge.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	count := 0
	for _, item := range cart.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	return &CartView{Cart: cart, Subtotal: subtotal, ItemsCount: count}, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	if product.StockQuantity < quantity {
		return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, product.Name)
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.FindCartItemByProduct(ctx, cart.ID, productID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.EffectivePrice(),
		}
		if err := s.Repo.CreateCartItem(ctx, item); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		newQuantity := item.Quantity + quantity
		if product.StockQuantity < newQuantity {
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, product.Name)
		}
		item.Quantity = newQuantity
		if err := s.Repo.SaveCartItem(ctx, item); err != nil {
			return nil, err
		}
	}

	item.Product = product
	return item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.Repo.GetCartItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item", ErrNotFound)
		}
		return nil, err
	}
	if item.Product != nil && item.Product.StockQuantity < quantity {
		return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, item.Product.Name)
	}

	item.Quantity = quantity
	if err := s.Repo.SaveCartItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteCartItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart item", ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.Repo.ClearCart(ctx, cart.ID)
}

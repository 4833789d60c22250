package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Otp{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return New(db)
}

func seedUser(t *testing.T, r *GormRepo, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Role:     models.RoleUser,
		Provider: models.ProviderLocal,
		IsActive: true,
	}
	require.NoError(t, r.DB.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, r *GormRepo, sku string, price int64, stock int) *models.Product {
	t.Helper()
	category := &models.Category{Name: "Dive Watches", IsActive: true}
	require.NoError(t, r.DB.FirstOrCreate(category, models.Category{Name: "Dive Watches"}).Error)
	brand := &models.Brand{Name: "Seiko", IsActive: true}
	require.NoError(t, r.DB.FirstOrCreate(brand, models.Brand{Name: "Seiko"}).Error)

	product := &models.Product{
		CategoryID:    category.ID,
		BrandID:       brand.ID,
		Name:          "Watch " + sku,
		Price:         decimal.NewFromInt(price),
		SKU:           sku,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, r.DB.Create(product).Error)
	return product
}

func seedCartWith(t *testing.T, r *GormRepo, userID uint, lines map[*models.Product]int) {
	t.Helper()
	cart, err := r.GetOrCreateCart(context.Background(), userID)
	require.NoError(t, err)
	for product, qty := range lines {
		require.NoError(t, r.CreateCartItem(context.Background(), &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  qty,
			Price:     product.EffectivePrice(),
		}))
	}
}

func productStock(t *testing.T, r *GormRepo, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, r.DB.First(&product, id).Error)
	return product.StockQuantity
}

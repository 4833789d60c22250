package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/models"
	"github.com/dathuynh/watch-store-api/internal/repo"
)

var (
	testJWTSecret     = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

type fakeMailer struct {
	sent   []sentMail
	failed bool
}

type sentMail struct {
	To   string
	Code string
	Type string
}

func (m *fakeMailer) SendOtp(to, code, otpType string) error {
	if m.failed {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Code: code, Type: otpType})
	return nil
}

func (m *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1].Code
}

func newTestRepo(t *testing.T) *repo.GormRepo {
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
	return repo.New(db)
}

func newTestAuth(t *testing.T) (*AuthService, *fakeMailer) {
	t.Helper()
	mail := &fakeMailer{}
	return &AuthService{
		Repo:          newTestRepo(t),
		JWTSecret:     testJWTSecret,
		RefreshSecret: testRefreshSecret,
		Mailer:        mail,
	}, mail
}

func seedTestProduct(t *testing.T, r *repo.GormRepo, sku string, price int64, stock int) *models.Product {
	t.Helper()
	category := &models.Category{Name: "Dress Watches", IsActive: true}
	require.NoError(t, r.DB.FirstOrCreate(category, models.Category{Name: "Dress Watches"}).Error)
	brand := &models.Brand{Name: "Orient", IsActive: true}
	require.NoError(t, r.DB.FirstOrCreate(brand, models.Brand{Name: "Orient"}).Error)

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

func seedTestUser(t *testing.T, r *repo.GormRepo, email string) *models.User {
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

func registerUser(t *testing.T, auth *AuthService, mail *fakeMailer, name, email, password string) *LoginResult {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, auth.SendRegisterOtp(ctx, name, email, password))
	res, err := auth.VerifyRegisterOtp(ctx, email, mail.lastCode(t))
	require.NoError(t, err)
	return res
}

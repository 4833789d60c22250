package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/hash"
	"github.com/dathuynh/watch-store-api/internal/models"
	"github.com/dathuynh/watch-store-api/internal/repo"
	"github.com/dathuynh/watch-store-api/internal/service"
)

var (
	testJWTSecret     = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

type testEnv struct {
	e    *echo.Echo
	repo *repo.GormRepo
	mail *fakeMailer
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) SendOtp(to, code, otpType string) error {
	m.sent = append(m.sent, code)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
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

	store := repo.New(db)
	mail := &fakeMailer{}

	e := echo.New()
	Register(e, Deps{
		Auth: &service.AuthService{
			Repo:          store,
			JWTSecret:     testJWTSecret,
			RefreshSecret: testRefreshSecret,
			Mailer:        mail,
		},
		Catalog:   &service.CatalogService{Repo: store},
		Cart:      &service.CartService{Repo: store},
		Orders:    &service.OrderService{Repo: store},
		Search:    &service.SearchService{},
		JWTSecret: testJWTSecret,
	})

	return &testEnv{e: e, repo: store, mail: mail}
}

func (env *testEnv) doJSON(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var envl Envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &envl)
	}
	return rec, envl
}

func (env *testEnv) createUser(t *testing.T, email, password, role string) *models.User {
	t.Helper()
	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
		Provider:     models.ProviderLocal,
		IsActive:     true,
	}
	require.NoError(t, env.repo.DB.Create(user).Error)
	return user
}

// login returns the bearer access token for the credentials.
func (env *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec, envl := env.doJSON(t, http.MethodPost, "/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := envl.Data.(map[string]any)
	return data["access_token"].(string)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func (env *testEnv) seedProduct(t *testing.T, sku string, price int64, stock int) *models.Product {
	t.Helper()
	category := &models.Category{Name: "Chronographs", IsActive: true}
	require.NoError(t, env.repo.DB.FirstOrCreate(category, models.Category{Name: "Chronographs"}).Error)
	brand := &models.Brand{Name: "Citizen", IsActive: true}
	require.NoError(t, env.repo.DB.FirstOrCreate(brand, models.Brand{Name: "Citizen"}).Error)

	product := &models.Product{
		CategoryID:    category.ID,
		BrandID:       brand.ID,
		Name:          "Watch " + sku,
		Price:         decimal.NewFromInt(price),
		SKU:           sku,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, env.repo.DB.Create(product).Error)
	return product
}

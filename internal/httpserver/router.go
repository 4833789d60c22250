package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/dathuynh/watch-store-api/internal/middleware/auth"
	"github.com/dathuynh/watch-store-api/internal/service"
)

type Deps struct {
	Auth        *service.AuthService
	Catalog     *service.CatalogService
	Cart        *service.CartService
	Orders      *service.OrderService
	Search      *service.SearchService
	JWTSecret   []byte
	FrontendURL string
}

func Register(e *echo.Echo, d Deps) {
	mw := &auth.TokenMiddleware{JWTSecret: d.JWTSecret}

	authH := &AuthHandler{Auth: d.Auth, FrontendURL: d.FrontendURL}
	productH := &ProductHandler{Catalog: d.Catalog}
	categoryH := &CategoryHandler{Catalog: d.Catalog}
	brandH := &BrandHandler{Catalog: d.Catalog}
	cartH := &CartHandler{Cart: d.Cart}
	orderH := &OrderHandler{Orders: d.Orders}
	searchH := &SearchHandler{Service: d.Search}

	e.POST("/register", authH.Register)
	e.POST("/register/verify", authH.VerifyRegister)
	e.POST("/login", authH.Login)
	e.POST("/logout", authH.Logout)
	e.POST("/refresh", authH.Refresh)
	e.GET("/me", authH.Me, mw.RequireLogin)
	e.POST("/forgot-password/send-otp", authH.ForgotPassword)
	e.POST("/forgot-password/reset", authH.ResetPassword)
	e.GET("/auth/google", authH.GoogleRedirect)
	e.GET("/auth/google/callback", authH.GoogleCallback)

	e.GET("/products", productH.List)
	e.GET("/products/:id", productH.Get)
	e.POST("/products", productH.Create, mw.RequireAdmin)
	e.PUT("/products/:id", productH.Update, mw.RequireAdmin)
	e.DELETE("/products/:id", productH.Delete, mw.RequireAdmin)

	e.GET("/categories", categoryH.List)
	e.GET("/categories/:id", categoryH.Get)
	e.POST("/categories", categoryH.Create, mw.RequireAdmin)
	e.PUT("/categories/:id", categoryH.Update, mw.RequireAdmin)
	e.DELETE("/categories/:id", categoryH.Delete, mw.RequireAdmin)

	e.GET("/brands", brandH.List)
	e.GET("/brands/:id", brandH.Get)
	e.POST("/brands", brandH.Create, mw.RequireAdmin)
	e.PUT("/brands/:id", brandH.Update, mw.RequireAdmin)
	e.DELETE("/brands/:id", brandH.Delete, mw.RequireAdmin)

	e.GET("/search", searchH.Search)

	cart := e.Group("/cart", mw.RequireLogin)
	cart.GET("", cartH.Get)
	cart.POST("/items", cartH.AddItem)
	cart.PUT("/items/:id", cartH.UpdateItem)
	cart.DELETE("/items/:id", cartH.RemoveItem)
	cart.DELETE("/clear", cartH.Clear)

	orders := e.Group("/orders", mw.RequireLogin)
	orders.POST("", orderH.Create)
	orders.GET("", orderH.List)
	orders.GET("/:id", orderH.Get)
	orders.PUT("/:id/cancel", orderH.Cancel)
	orders.PUT("/:id/status", orderH.UpdateStatus, mw.RequireAdmin)
}

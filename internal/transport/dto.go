package transport

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type VerifyRegisterRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email                string `json:"email"`
	Otp                  string `json:"otp"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ProductFilter struct {
	CategoryID *uint
	BrandID    *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Gender     string
	IsFeatured *bool
	Search     string
	SortBy     string
	SortOrder  string
}

type ProductRequest struct {
	CategoryID      uint             `json:"category_id" form:"category_id"`
	BrandID         uint             `json:"brand_id" form:"brand_id"`
	Name            string           `json:"name" form:"name"`
	Description     string           `json:"description" form:"description"`
	Price           decimal.Decimal  `json:"price" form:"price"`
	SalePrice       *decimal.Decimal `json:"sale_price" form:"sale_price"`
	SKU             string           `json:"sku" form:"sku"`
	StockQuantity   int              `json:"stock_quantity" form:"stock_quantity"`
	CaseMaterial    string           `json:"case_material" form:"case_material"`
	StrapMaterial   string           `json:"strap_material" form:"strap_material"`
	MovementType    string           `json:"movement_type" form:"movement_type"`
	WaterResistance string           `json:"water_resistance" form:"water_resistance"`
	DialColor       string           `json:"dial_color" form:"dial_color"`
	CaseDiameter    string           `json:"case_diameter" form:"case_diameter"`
	Gender          string           `json:"gender" form:"gender"`
	IsFeatured      *bool            `json:"is_featured" form:"is_featured"`
	IsActive        *bool            `json:"is_active" form:"is_active"`
}

type CategoryRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	IsActive    *bool  `json:"is_active" form:"is_active"`
}

type BrandRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Country     string `json:"country" form:"country"`
	Website     string `json:"website" form:"website"`
	IsActive    *bool  `json:"is_active" form:"is_active"`
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	ShippingPhone   string `json:"shipping_phone"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null"                 json:"name"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url"`
	ImagePublicID string    `json:"-"`
	IsActive      bool      `gorm:"not null;default:true"    json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Brand struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Description  string    `json:"description"`
	LogoURL      string    `json:"logo_url"`
	LogoPublicID string    `json:"-"`
	Country      string    `json:"country"`
	Website      string    `json:"website"`
	IsActive     bool      `gorm:"not null;default:true"    json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductImage is one hosted image: the serving URL plus the storage
// identifier needed to delete the asset later.
type ProductImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type ProductImages []ProductImage

func (p ProductImages) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *ProductImages) Scan(src any) error {
	if src == nil {
		*p = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for ProductImages")
	}
	return json.Unmarshal(data, p)
}

type Product struct {
	ID              uint             `gorm:"primaryKey;autoIncrement"  json:"id"`
	CategoryID      uint             `gorm:"index;not null"            json:"category_id"`
	BrandID         uint             `gorm:"index;not null"            json:"brand_id"`
	Name            string           `gorm:"not null"                  json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	SalePrice       *decimal.Decimal `gorm:"type:decimal(12,2)"        json:"sale_price"`
	SKU             string           `gorm:"uniqueIndex;not null"      json:"sku"`
	StockQuantity   int              `gorm:"not null;default:0;check:stock_quantity>=0" json:"stock_quantity"`
	Images          ProductImages    `gorm:"type:text"                 json:"images"`
	CaseMaterial    string           `json:"case_material"`
	StrapMaterial   string           `json:"strap_material"`
	MovementType    string           `json:"movement_type"`
	WaterResistance string           `json:"water_resistance"`
	DialColor       string           `json:"dial_color"`
	CaseDiameter    string           `json:"case_diameter"`
	Gender          string           `json:"gender"`
	IsFeatured      bool             `gorm:"not null;default:false"    json:"is_featured"`
	IsActive        bool             `gorm:"not null;default:true"     json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Brand    *Brand    `gorm:"foreignKey:BrandID"    json:"brand,omitempty"`
}

// EffectivePrice is the price a cart line locks in: the sale price when
// one is set, the regular price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

func (p *Product) DiscountPercentage() int {
	if p.SalePrice == nil || !p.Price.IsPositive() {
		return 0
	}
	diff := p.Price.Sub(*p.SalePrice)
	return int(diff.Div(p.Price).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		InStock            bool   `json:"in_stock"`
		DiscountPercentage int    `json:"discount_percentage"`
		ImageURL           string `json:"image_url"`
	}{
		alias:              alias(p),
		InStock:            p.InStock(),
		DiscountPercentage: p.DiscountPercentage(),
		ImageURL:           p.firstImageURL(),
	})
}

func (p *Product) firstImageURL() string {
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

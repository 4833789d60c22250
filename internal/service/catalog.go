package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/events"
	"github.com/dathuynh/watch-store-api/internal/logging"
	"github.com/dathuynh/watch-store-api/internal/models"
	"github.com/dathuynh/watch-store-api/internal/repo"
	"github.com/dathuynh/watch-store-api/internal/transport"
	"github.com/dathuynh/watch-store-api/internal/uploader"
)

const (
	productFolder  = "products"
	categoryFolder = "categories"
	brandFolder    = "brands"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Uploader uploader.Uploader
	Indexer  *ProductIndexer
	Events   *events.Producer
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, f transport.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, f, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest, images []*multipart.FileHeader) (*models.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category", ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.Repo.GetBrand(ctx, req.BrandID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: brand", ErrNotFound)
		}
		return nil, err
	}

	product := &models.Product{
		CategoryID:      req.CategoryID,
		BrandID:         req.BrandID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		SalePrice:       req.SalePrice,
		SKU:             req.SKU,
		StockQuantity:   req.StockQuantity,
		CaseMaterial:    req.CaseMaterial,
		StrapMaterial:   req.StrapMaterial,
		MovementType:    req.MovementType,
		WaterResistance: req.WaterResistance,
		DialColor:       req.DialColor,
		CaseDiameter:    req.CaseDiameter,
		Gender:          req.Gender,
		IsActive:        true,
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	uploaded, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}
	product.Images = uploaded

	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		// orphaned uploads would never be referenced again
		s.deleteImages(ctx, uploaded)
		return nil, err
	}

	s.Indexer.Index(ctx, product)
	s.publishProduct(ctx, "product_created", product)
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest, images []*multipart.FileHeader) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product.CategoryID = req.CategoryID
	product.BrandID = req.BrandID
	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.SalePrice = req.SalePrice
	product.SKU = req.SKU
	product.StockQuantity = req.StockQuantity
	product.CaseMaterial = req.CaseMaterial
	product.StrapMaterial = req.StrapMaterial
	product.MovementType = req.MovementType
	product.WaterResistance = req.WaterResistance
	product.DialColor = req.DialColor
	product.CaseDiameter = req.CaseDiameter
	product.Gender = req.Gender
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	// New uploads replace the whole gallery.
	if len(images) > 0 {
		uploaded, err := s.uploadImages(ctx, images)
		if err != nil {
			return nil, err
		}
		s.deleteImages(ctx, product.Images)
		product.Images = uploaded
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}

	s.Indexer.Index(ctx, product)
	s.publishProduct(ctx, "product_updated", product)
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product", ErrNotFound)
		}
		return err
	}

	s.deleteImages(ctx, product.Images)
	s.Indexer.Remove(ctx, id)
	s.publishProduct(ctx, "product_deleted", product)
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx, activeOnly)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category", ErrNotFound)
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest, image *multipart.FileHeader) (*models.Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if image != nil {
		res, err := s.upload(ctx, image, categoryFolder)
		if err != nil {
			return nil, err
		}
		category.ImageURL = res.URL
		category.ImagePublicID = res.PublicID
	}

	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req transport.CategoryRequest, image *multipart.FileHeader) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	category.Name = req.Name
	category.Description = req.Description
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if image != nil {
		res, err := s.upload(ctx, image, categoryFolder)
		if err != nil {
			return nil, err
		}
		if category.ImagePublicID != "" {
			s.deleteAsset(ctx, category.ImagePublicID)
		}
		category.ImageURL = res.URL
		category.ImagePublicID = res.PublicID
	}

	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category", ErrNotFound)
		}
		return err
	}
	if category.ImagePublicID != "" {
		s.deleteAsset(ctx, category.ImagePublicID)
	}
	return nil
}

func (s *CatalogService) ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	return s.Repo.ListBrands(ctx, activeOnly)
}

func (s *CatalogService) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	brand, err := s.Repo.GetBrand(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: brand", ErrNotFound)
		}
		return nil, err
	}
	return brand, nil
}

func (s *CatalogService) CreateBrand(ctx context.Context, req transport.BrandRequest, logo *multipart.FileHeader) (*models.Brand, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	brand := &models.Brand{
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
		Website:     req.Website,
		IsActive:    true,
	}
	if req.IsActive != nil {
		brand.IsActive = *req.IsActive
	}

	if logo != nil {
		res, err := s.upload(ctx, logo, brandFolder)
		if err != nil {
			return nil, err
		}
		brand.LogoURL = res.URL
		brand.LogoPublicID = res.PublicID
	}

	if err := s.Repo.CreateBrand(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id uint, req transport.BrandRequest, logo *multipart.FileHeader) (*models.Brand, error) {
	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	brand.Name = req.Name
	brand.Description = req.Description
	brand.Country = req.Country
	brand.Website = req.Website
	if req.IsActive != nil {
		brand.IsActive = *req.IsActive
	}

	if logo != nil {
		res, err := s.upload(ctx, logo, brandFolder)
		if err != nil {
			return nil, err
		}
		if brand.LogoPublicID != "" {
			s.deleteAsset(ctx, brand.LogoPublicID)
		}
		brand.LogoURL = res.URL
		brand.LogoPublicID = res.PublicID
	}

	if err := s.Repo.SaveBrand(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *CatalogService) DeleteBrand(ctx context.Context, id uint) error {
	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteBrand(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: brand", ErrNotFound)
		}
		return err
	}
	if brand.LogoPublicID != "" {
		s.deleteAsset(ctx, brand.LogoPublicID)
	}
	return nil
}

func validateProductRequest(req transport.ProductRequest) error {
	switch {
	case req.Name == "":
		return fmt.Errorf("%w: name required", ErrValidation)
	case req.SKU == "":
		return fmt.Errorf("%w: sku required", ErrValidation)
	case req.CategoryID == 0:
		return fmt.Errorf("%w: category_id required", ErrValidation)
	case req.BrandID == 0:
		return fmt.Errorf("%w: brand_id required", ErrValidation)
	case !req.Price.IsPositive():
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	case req.SalePrice != nil && req.SalePrice.IsNegative():
		return fmt.Errorf("%w: sale_price must not be negative", ErrValidation)
	case req.StockQuantity < 0:
		return fmt.Errorf("%w: stock_quantity must not be negative", ErrValidation)
	}
	return nil
}

func (s *CatalogService) upload(ctx context.Context, file *multipart.FileHeader, folder string) (*uploader.UploadResult, error) {
	if s.Uploader == nil {
		return nil, fmt.Errorf("%w: image uploads are not configured", ErrValidation)
	}
	return s.Uploader.Upload(ctx, file, folder)
}

func (s *CatalogService) uploadImages(ctx context.Context, files []*multipart.FileHeader) (models.ProductImages, error) {
	var uploaded models.ProductImages
	for _, file := range files {
		res, err := s.upload(ctx, file, productFolder)
		if err != nil {
			s.deleteImages(ctx, uploaded)
			return nil, fmt.Errorf("upload %s: %w", file.Filename, err)
		}
		uploaded = append(uploaded, models.ProductImage{URL: res.URL, PublicID: res.PublicID})
	}
	return uploaded, nil
}

func (s *CatalogService) deleteImages(ctx context.Context, images models.ProductImages) {
	for _, img := range images {
		s.deleteAsset(ctx, img.PublicID)
	}
}

func (s *CatalogService) deleteAsset(ctx context.Context, publicID string) {
	if s.Uploader == nil || publicID == "" {
		return
	}
	if err := s.Uploader.Delete(ctx, publicID); err != nil {
		logging.FromContext(ctx).Error("asset_delete_failed", "public_id", publicID, "error", err)
	}
}

func (s *CatalogService) publishProduct(ctx context.Context, eventType string, product *models.Product) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	event := map[string]any{
		"type":       eventType,
		"product_id": product.ID,
		"name":       product.Name,
		"sku":        product.SKU,
	}
	if err := s.Events.PublishEvent(pubCtx, events.TopicProductEvents, strconv.FormatUint(uint64(product.ID), 10), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", events.TopicProductEvents, "error", err)
	}
}

// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/POSTANYIDEAS/Ecommerce/internal/apperrors"
	"github.com/POSTANYIDEAS/Ecommerce/internal/models"
	"github.com/POSTANYIDEAS/Ecommerce/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=255"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	Description   string          `json:"description"`
	Image         string          `json:"image,omitempty"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
}

// UpdateProductRequest deliberately has no stock field; stock moves only
// through the inventory ledger.
type UpdateProductRequest struct {
	Name        string           `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description *string          `json:"description,omitempty"`
	Image       string           `json:"image,omitempty"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID *uuid.UUID       `json:"category_id,omitempty"`
	PriceMin   *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax   *decimal.Decimal `json:"price_max,omitempty"`
	InStock    *bool            `json:"in_stock,omitempty"`
}

type ProductDetailRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	Description   string    `json:"description"`
	Advantages    string    `json:"advantages"`
	Disadvantages string    `json:"disadvantages"`
	Images        []string  `json:"images,omitempty"`
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("validation failed: %v", err)
	}
	if req.Price.IsNegative() {
		return nil, apperrors.Validationf("price must not be negative")
	}

	if req.CategoryID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Category{}).
			Where("id = ?", *req.CategoryID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if count == 0 {
			return nil, apperrors.Validationf("category %s not found", *req.CategoryID)
		}
	}

	product := &models.Product{
		Name:          req.Name,
		Price:         req.Price,
		Description:   req.Description,
		Image:         req.Image,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Category").Preload("Details").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) SearchProducts(ctx context.Context, params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}
	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}
	if params.InStock != nil && *params.InStock {
		query = query.Where("stock_quantity > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "stock_quantity"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

func (s *ProductService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category products: %w", err)
	}
	return products, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("validation failed: %v", err)
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperrors.Validationf("price must not be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != "" {
		updates["image"] = req.Image
	}
	if req.CategoryID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Category{}).
			Where("id = ?", *req.CategoryID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if count == 0 {
			return nil, apperrors.Validationf("category %s not found", *req.CategoryID)
		}
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.db.WithContext(ctx).Preload("Category").Preload("Details").First(&product, "id = ?", id)
	return &product, nil
}

// DeleteProduct removes the product and its detail sheets. Historical
// order lines keep their price snapshot; their product reference is nulled
// so receipts and reports still render.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product: %w", apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to load product: %w", err)
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.ProductDetail{}).Error; err != nil {
			return fmt.Errorf("failed to delete product details: %w", err)
		}
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach order items: %w", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}

func (s *ProductService) GetProductDetails(ctx context.Context, productID uuid.UUID) ([]models.ProductDetail, error) {
	var details []models.ProductDetail
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product details: %w", err)
	}
	return details, nil
}

func (s *ProductService) CreateProductDetail(ctx context.Context, req *ProductDetailRequest) (*models.ProductDetail, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("validation failed: %v", err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", req.ProductID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if count == 0 {
		return nil, apperrors.Validationf("product %s not found", req.ProductID)
	}

	detail := &models.ProductDetail{
		ProductID:     req.ProductID,
		Description:   req.Description,
		Advantages:    req.Advantages,
		Disadvantages: req.Disadvantages,
		Images:        req.Images,
	}
	if err := s.db.WithContext(ctx).Create(detail).Error; err != nil {
		return nil, fmt.Errorf("failed to create product detail: %w", err)
	}
	return detail, nil
}

func (s *ProductService) UpdateProductDetail(ctx context.Context, id uuid.UUID, req *ProductDetailRequest) (*models.ProductDetail, error) {
	var detail models.ProductDetail
	if err := s.db.WithContext(ctx).First(&detail, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product detail: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load product detail: %w", err)
	}

	updates := map[string]interface{}{
		"description":   req.Description,
		"advantages":    req.Advantages,
		"disadvantages": req.Disadvantages,
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if err := s.db.WithContext(ctx).Model(&detail).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product detail: %w", err)
	}
	return &detail, nil
}

func (s *ProductService) DeleteProductDetail(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.ProductDetail{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product detail: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product detail: %w", apperrors.ErrNotFound)
	}
	return nil
}

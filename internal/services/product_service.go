package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"catalog-admin/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultProductLimit = 10
	defaultProductSort  = "price"
)

// productSortColumns whitelists the sortBy values accepted on listing.
var productSortColumns = map[string]string{
	"price":     "price",
	"oldPrice":  "old_price",
	"stock":     "stock",
	"rating":    "rating",
	"views":     "views",
	"title":     "title",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type ProductService struct {
	db       *gorm.DB
	uploads  *UploadService
	validate *Validator
	logger   zerolog.Logger
}

func NewProductService(db *gorm.DB, uploads *UploadService, validate *Validator, logger zerolog.Logger) *ProductService {
	return &ProductService{
		db:       db,
		uploads:  uploads,
		validate: validate,
		logger:   logger,
	}
}

// List pages through products. Skip is a 1-based page number. Rows that tie
// on the sort column come newest first.
func (s *ProductService) List(ctx context.Context, q models.ProductQuery) ([]models.Product, int64, error) {
	if q.Limit <= 0 {
		q.Limit = defaultProductLimit
	}
	if q.SortBy == "" {
		q.SortBy = defaultProductSort
	}
	column, ok := productSortColumns[q.SortBy]
	if !ok {
		return nil, 0, &ValidationError{Field: "sortBy", Message: fmt.Sprintf("%q is not a sortable field", q.SortBy)}
	}

	desc := false
	switch strings.ToLower(q.SortOrder) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return nil, 0, &ValidationError{Field: "sortOrder", Message: `"sortOrder" must be one of [asc, desc]`}
	}

	byCategory := func(tx *gorm.DB) *gorm.DB {
		if q.CategoryID != "" {
			return tx.Where("category_id = ?", q.CategoryID)
		}
		return tx
	}

	products := []models.Product{}
	err := s.db.WithContext(ctx).
		Scopes(byCategory).
		Preload("Category", preloadCategory).
		Preload("Admin", preloadOwner).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Limit(q.Limit).
		Offset(pageOffset(q.Skip, q.Limit)).
		Find(&products).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing products")
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Scopes(byCategory).Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Error counting products")
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return products, total, nil
}

// ListByCategory uses a raw row offset rather than a page number.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID string, limit, offset int) (*models.Category, []models.Product, int64, error) {
	if limit <= 0 {
		limit = defaultProductLimit
	}
	if offset < 0 {
		offset = 0
	}

	var category models.Category
	if err := findByID(ctx, s.db, &category, categoryID, "Category"); err != nil {
		return nil, nil, 0, err
	}

	products := []models.Product{}
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Preload("Category", preloadCategory).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", categoryID).Msg("Error listing products by category")
		return nil, nil, 0, fmt.Errorf("database error: %w", err)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&total).Error; err != nil {
		return nil, nil, 0, fmt.Errorf("database error: %w", err)
	}

	return &category, products, total, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	tx := s.db.Preload("Category", preloadCategory).Preload("Admin", preloadOwner)
	if err := findByID(ctx, tx, &product, id, "Product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create stores the photos only after the request has passed validation and
// the title check, and removes them again if the insert fails.
func (s *ProductService) Create(ctx context.Context, req *models.ProductRequest, adminID, baseURL string, photos []*multipart.FileHeader) (*models.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, &ValidationError{Field: "photos", Message: `"photos" must contain at least 1 file`}
	}
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if err := ensureUnique(ctx, s.db, &models.Product{}, "title", "title", req.Title, ""); err != nil {
		return nil, err
	}

	stored, err := s.uploads.Save(baseURL, photos)
	if err != nil {
		return nil, err
	}

	product := &models.Product{AdminID: adminID, Available: true, Info: []any{}}
	applyProduct(product, req)
	product.URLs = make([]string, 0, len(stored))
	for _, f := range stored {
		product.URLs = append(product.URLs, f.URL)
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		s.uploads.Remove(stored)
		s.logger.Error().Err(err).Msg("Error creating product")
		return nil, storeError(err, "title", "create product")
	}

	s.logger.Info().Str("product_id", product.ID).Str("admin_id", adminID).Int("photos", len(stored)).Msg("Product created")
	return product, nil
}

// Update replaces the product's fields with req. Image URLs are kept unless
// a non-empty list is supplied; the owner never changes.
func (s *ProductService) Update(ctx context.Context, id string, req *models.ProductRequest) (*models.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if err := ensureUnique(ctx, s.db, &models.Product{}, "title", "title", req.Title, id); err != nil {
		return nil, err
	}

	var product models.Product
	if err := findByID(ctx, s.db, &product, id, "Product"); err != nil {
		return nil, err
	}
	if req.CategoryID != product.CategoryID {
		if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}

	applyProduct(&product, req)
	if len(req.URLs) > 0 {
		product.URLs = req.URLs
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&product).Error; err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("Error updating product")
		return nil, storeError(err, "title", "update product")
	}

	s.logger.Info().Str("product_id", id).Msg("Product updated")
	return &product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := findByID(ctx, s.db, &product, id, "Product"); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(&product).Error; err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("Error deleting product")
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().Str("product_id", id).Msg("Product deleted")
	return &product, nil
}

func (s *ProductService) ensureCategory(ctx context.Context, categoryID string) error {
	var category models.Category
	return findByID(ctx, s.db, &category, categoryID, "Category")
}

func applyProduct(p *models.Product, req *models.ProductRequest) {
	p.Title = req.Title
	p.Price = *req.Price
	p.OldPrice = req.OldPrice
	p.Stock = req.Stock
	p.Rating = req.Rating
	p.Views = req.Views
	p.CategoryID = req.CategoryID
	p.Units = req.Units
	p.Description = req.Description
	if req.Info != nil {
		p.Info = req.Info
	}
	if req.Available != nil {
		p.Available = *req.Available
	}
}

func preloadCategory(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "title")
}

package services

import (
	"context"
	"fmt"

	"catalog-admin/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryService struct {
	db       *gorm.DB
	validate *Validator
	logger   zerolog.Logger
}

func NewCategoryService(db *gorm.DB, validate *Validator, logger zerolog.Logger) *CategoryService {
	return &CategoryService{
		db:       db,
		validate: validate,
		logger:   logger,
	}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, int64, error) {
	categories := []models.Category{}
	err := s.db.WithContext(ctx).
		Preload("Admin", preloadOwner).
		Order("created_at DESC").
		Find(&categories).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing categories")
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Error counting categories")
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return categories, total, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := findByID(ctx, s.db, &category, id, "Category"); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Create(ctx context.Context, req *models.CategoryRequest, adminID string) (*models.CategoryResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	if err := ensureUnique(ctx, s.db, &models.Category{}, "title", "title", req.Title, ""); err != nil {
		return nil, err
	}

	category := &models.Category{Title: req.Title, AdminID: adminID}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error; err != nil {
		s.logger.Error().Err(err).Msg("Error creating category")
		return nil, storeError(err, "title", "create category")
	}

	owner, err := ownerSummary(ctx, s.db, adminID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("category_id", category.ID).Str("admin_id", adminID).Msg("Category created")
	return &models.CategoryResult{Category: category, CreatedBy: owner}, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req *models.CategoryRequest) (*models.CategoryResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	if err := ensureUnique(ctx, s.db, &models.Category{}, "title", "title", req.Title, id); err != nil {
		return nil, err
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Title = req.Title
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error; err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("Error updating category")
		return nil, storeError(err, "title", "update category")
	}

	owner, err := ownerSummary(ctx, s.db, category.AdminID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("category_id", id).Msg("Category updated")
	return &models.CategoryResult{Category: category, UpdatedBy: owner}, nil
}

// Delete removes the category only; products keep their dangling reference.
func (s *CategoryService) Delete(ctx context.Context, id string) (*models.CategoryResult, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(category).Error; err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("Error deleting category")
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	owner, err := ownerSummary(ctx, s.db, category.AdminID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("category_id", id).Msg("Category deleted")
	return &models.CategoryResult{Category: category, DeletedBy: owner}, nil
}

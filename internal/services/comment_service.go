package services

import (
	"context"
	"fmt"

	"catalog-admin/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentService struct {
	db       *gorm.DB
	validate *Validator
	logger   zerolog.Logger
}

func NewCommentService(db *gorm.DB, validate *Validator, logger zerolog.Logger) *CommentService {
	return &CommentService{
		db:       db,
		validate: validate,
		logger:   logger,
	}
}

func (s *CommentService) List(ctx context.Context) ([]models.Comment, int64, error) {
	comments := []models.Comment{}
	err := s.db.WithContext(ctx).
		Preload("Admin", preloadOwner).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing comments")
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Error counting comments")
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return comments, total, nil
}

func (s *CommentService) Get(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := findByID(ctx, s.db, &comment, id, "Comment"); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) Create(ctx context.Context, req *models.CommentRequest, adminID string) (*models.CommentResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if err := s.ensureProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:      req.Text,
		Rating:    *req.Rating,
		ProductID: req.ProductID,
		AdminID:   adminID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		s.logger.Error().Err(err).Msg("Error creating comment")
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	owner, err := ownerSummary(ctx, s.db, adminID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("comment_id", comment.ID).Str("product_id", comment.ProductID).Msg("Comment created")
	return &models.CommentResult{Comment: comment, CreatedBy: owner}, nil
}

func (s *CommentService) Update(ctx context.Context, id string, req *models.CommentRequest) (*models.CommentResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ProductID != comment.ProductID {
		if err := s.ensureProduct(ctx, req.ProductID); err != nil {
			return nil, err
		}
	}

	comment.Text = req.Text
	comment.Rating = *req.Rating
	comment.ProductID = req.ProductID
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(comment).Error; err != nil {
		s.logger.Error().Err(err).Str("comment_id", id).Msg("Error updating comment")
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	owner, err := ownerSummary(ctx, s.db, comment.AdminID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("comment_id", id).Msg("Comment updated")
	return &models.CommentResult{Comment: comment, UpdatedBy: owner}, nil
}

func (s *CommentService) Delete(ctx context.Context, id string) (*models.CommentResult, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(comment).Error; err != nil {
		s.logger.Error().Err(err).Str("comment_id", id).Msg("Error deleting comment")
		return nil, fmt.Errorf("failed to delete comment: %w", err)
	}

	owner, err := ownerSummary(ctx, s.db, comment.AdminID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("comment_id", id).Msg("Comment deleted")
	return &models.CommentResult{Comment: comment, DeletedBy: owner}, nil
}

func (s *CommentService) ensureProduct(ctx context.Context, productID string) error {
	var product models.Product
	return findByID(ctx, s.db.Select("id"), &product, productID, "Product")
}

package services

import (
	"context"
	"errors"
	"fmt"

	"catalog-admin/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService struct {
	db       *gorm.DB
	tokens   *TokenService
	validate *Validator
	logger   zerolog.Logger
}

func NewAdminService(db *gorm.DB, tokens *TokenService, validate *Validator, logger zerolog.Logger) *AdminService {
	return &AdminService{
		db:       db,
		tokens:   tokens,
		validate: validate,
		logger:   logger,
	}
}

func (s *AdminService) List(ctx context.Context, limit, page int) ([]models.Admin, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Error counting admins")
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	admins := []models.Admin{}
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(pageOffset(page, limit)).
		Find(&admins).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing admins")
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return admins, total, nil
}

// Register creates an admin and returns a session token for it.
func (s *AdminService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	if err := ensureUnique(ctx, s.db, &models.Admin{}, "username", "username", req.Username, ""); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, err
	}

	admin := &models.Admin{
		Fname:    req.Fname,
		Lname:    req.Lname,
		Username: req.Username,
		Password: hashedPassword,
		Phone:    req.Phone,
		IsActive: true,
		Role:     string(models.RoleAdmin),
	}
	if req.IsActive != nil {
		admin.IsActive = *req.IsActive
	}
	if req.Role != "" {
		admin.Role = req.Role
	}

	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		s.logger.Error().Err(err).Str("username", req.Username).Msg("Error creating admin")
		return nil, storeError(err, "username", "create admin")
	}

	token, err := s.tokens.Issue(admin.ID, admin.Role, true)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("admin_id", admin.ID).Str("username", admin.Username).Msg("Admin registered successfully")
	return &models.AuthResponse{Token: token, Admin: admin}, nil
}

func (s *AdminService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	var admin models.Admin
	err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying admin")
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !admin.IsActive {
		s.logger.Warn().Str("username", req.Username).Msg("Login attempt on inactive account")
		return nil, ErrInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("username", req.Username).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.ID, admin.Role, admin.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("admin_id", admin.ID).Msg("Admin authenticated successfully")
	return &models.AuthResponse{Token: token, Admin: &admin}, nil
}

func (s *AdminService) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	var admin models.Admin
	if err := findByID(ctx, s.db, &admin, id, "Admin"); err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetProfile loads the caller's own record. A deactivated account is treated
// like an invalid session even though its token has not expired yet.
func (s *AdminService) GetProfile(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrInactive
	}
	return admin, nil
}

// UpdateProfile lets an admin edit their own record. Role and active flag are
// not self-service; a password is re-hashed only when one is supplied.
func (s *AdminService) UpdateProfile(ctx context.Context, id string, patch *models.AdminPatch) (*models.Admin, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, err
	}

	admin, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		if err := ensureUnique(ctx, s.db, &models.Admin{}, "username", "username", *patch.Username, id); err != nil {
			return nil, err
		}
	}

	applyProfileFields(admin, patch)
	if patch.Password != nil {
		hashedPassword, err := hashPassword(*patch.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Error hashing password")
			return nil, err
		}
		admin.Password = hashedPassword
	}

	if err := s.db.WithContext(ctx).Save(admin).Error; err != nil {
		s.logger.Error().Err(err).Str("admin_id", id).Msg("Error updating profile")
		return nil, storeError(err, "username", "update profile")
	}

	s.logger.Info().Str("admin_id", id).Msg("Profile updated")
	return admin, nil
}

// Update is the owner-only edit of any admin. It never touches passwords:
// a body carrying one is rejected outright.
func (s *AdminService) Update(ctx context.Context, id string, patch *models.AdminPatch) (*models.Admin, error) {
	if patch.Password != nil {
		return nil, &ValidationError{Field: "password", Message: "Password must be unavailable"}
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, err
	}

	admin, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		if err := ensureUnique(ctx, s.db, &models.Admin{}, "username", "username", *patch.Username, id); err != nil {
			return nil, err
		}
	}

	applyProfileFields(admin, patch)
	if patch.Role != nil {
		admin.Role = *patch.Role
	}
	if patch.IsActive != nil {
		admin.IsActive = *patch.IsActive
	}

	if err := s.db.WithContext(ctx).Save(admin).Error; err != nil {
		s.logger.Error().Err(err).Str("admin_id", id).Msg("Error updating admin")
		return nil, storeError(err, "username", "update admin")
	}

	s.logger.Info().Str("admin_id", id).Msg("Admin updated")
	return admin, nil
}

func (s *AdminService) Delete(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(admin).Error; err != nil {
		s.logger.Error().Err(err).Str("admin_id", id).Msg("Error deleting admin")
		return nil, fmt.Errorf("failed to delete admin: %w", err)
	}

	s.logger.Info().Str("admin_id", id).Msg("Admin deleted")
	return admin, nil
}

// EnsureOwner seeds an owner account when the admins table is empty. It
// reports whether an account was created.
func (s *AdminService) EnsureOwner(ctx context.Context, username, password, phone string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if username == "" || password == "" {
		s.logger.Warn().Msg("No admins exist and OWNER_USERNAME/OWNER_PASSWORD are not set")
		return false, nil
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return false, err
	}

	owner := &models.Admin{
		Fname:    username,
		Username: username,
		Password: hashedPassword,
		Phone:    phone,
		IsActive: true,
		Role:     string(models.RoleOwner),
	}
	if err := s.db.WithContext(ctx).Create(owner).Error; err != nil {
		return false, fmt.Errorf("failed to create owner: %w", err)
	}

	s.logger.Info().Str("admin_id", owner.ID).Str("username", username).Msg("Owner account created")
	return true, nil
}

func applyProfileFields(admin *models.Admin, patch *models.AdminPatch) {
	if patch.Fname != nil {
		admin.Fname = *patch.Fname
	}
	if patch.Lname != nil {
		admin.Lname = *patch.Lname
	}
	if patch.Username != nil {
		admin.Username = *patch.Username
	}
	if patch.Phone != nil {
		admin.Phone = *patch.Phone
	}
}

// hashPassword salts per record; bcrypt.DefaultCost is 10 rounds.
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

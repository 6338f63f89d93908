// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/POSTANYIDEAS/Ecommerce/internal/apperrors"
	"github.com/POSTANYIDEAS/Ecommerce/internal/config"
	"github.com/POSTANYIDEAS/Ecommerce/internal/models"
	"github.com/POSTANYIDEAS/Ecommerce/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"number" validate:"omitempty,phone"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	// EmailOrPhone keeps the storefront login form a single field.
	EmailOrPhone string `json:"email_or_number" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("validation failed: %v", err)
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", req.Email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.Validationf("user with email %s already exists", req.Email)
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("validation failed: %v", err)
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR number = ?", req.EmailOrPhone, req.EmailOrPhone).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validationf("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Validationf("invalid credentials")
	}

	token, err := utils.GenerateJWT(user.ID, user.Name, user.Email, utils.RoleCustomer, s.cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, User: &user}, nil
}

func (s *AuthService) AdminLogin(ctx context.Context, req *AdminLoginRequest) (*AuthResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validationf("validation failed: %v", err)
	}

	var admin models.Admin
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validationf("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := admin.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Validationf("invalid credentials")
	}

	token, err := utils.GenerateJWT(admin.ID, "", admin.Email, utils.RoleAdmin, s.cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token}, nil
}

// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/farmlink/market-backend/internal/config"
	"github.com/farmlink/market-backend/internal/models"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthService(db *gorm.DB, config *config.Config) *AuthService {
	return &AuthService{db: db, config: config}
}

type RegisterCustomerRequest struct {
	Username           string `json:"username" binding:"required,username"`
	Email              string `json:"email" binding:"required,email"`
	Password           string `json:"password" binding:"required,strong_password"`
	FirstName          string `json:"first_name" binding:"required"`
	LastName           string `json:"last_name" binding:"required"`
	Phone              string `json:"phone" binding:"omitempty,phone"`
	Age                *int   `json:"age" binding:"omitempty,gte=13"`
	Location           string `json:"location"`
	DeliveryAddress    string `json:"delivery_address"`
	DietaryPreferences string `json:"dietary_preferences"`
}

type RegisterFarmerRequest struct {
	Username          string `json:"username" binding:"required,username"`
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,strong_password"`
	FirstName         string `json:"first_name" binding:"required"`
	LastName          string `json:"last_name" binding:"required"`
	Phone             string `json:"phone" binding:"omitempty,phone"`
	Age               *int   `json:"age" binding:"omitempty,gte=18"`
	Location          string `json:"location"`
	FarmName          string `json:"farm_name" binding:"required"`
	FarmSize          string `json:"farm_size"`
	FarmLocation      string `json:"farm_location"`
	FarmDescription   string `json:"farm_description"`
	YearsOfExperience int    `json:"years_of_experience" binding:"omitempty,gte=0"`
	FarmingMethods    string `json:"farming_methods"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
}

// RegisterCustomer creates a customer account and its profile row in one
// transaction.
func (s *AuthService) RegisterCustomer(req *RegisterCustomerRequest) (*AuthResponse, error) {
	if err := s.checkUniqueness(req.Username, req.Email); err != nil {
		return nil, err
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		UserType:  models.UserTypeCustomer,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Age:       req.Age,
		Location:  req.Location,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.CustomerProfile{
			UserID:             user.ID,
			DeliveryAddress:    req.DeliveryAddress,
			DietaryPreferences: req.DietaryPreferences,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return s.issueTokens(&user)
}

// RegisterFarmer creates a farmer account with its farm profile. New farmers
// start unverified.
func (s *AuthService) RegisterFarmer(req *RegisterFarmerRequest) (*AuthResponse, error) {
	if err := s.checkUniqueness(req.Username, req.Email); err != nil {
		return nil, err
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		UserType:  models.UserTypeFarmer,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Age:       req.Age,
		Location:  req.Location,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.FarmerProfile{
			UserID:            user.ID,
			FarmName:          req.FarmName,
			FarmSize:          req.FarmSize,
			FarmLocation:      req.FarmLocation,
			FarmDescription:   req.FarmDescription,
			YearsOfExperience: req.YearsOfExperience,
			FarmingMethods:    req.FarmingMethods,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create farmer: %w", err)
	}

	return s.issueTokens(&user)
}

// Login authenticates by username and password.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	var user models.User
	err := s.db.Where("username = ?", req.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrAccessDenied
	}

	return s.issueTokens(&user)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateRefreshToken(refreshToken, s.config.JWT.SecretKey)
	if err != nil {
		return nil, ErrAccessDenied
	}

	user, err := s.GetUserByID(claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) checkUniqueness(username, email string) error {
	var count int64
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return fmt.Errorf("%w: username", ErrDuplicate)
	}
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return fmt.Errorf("%w: email", ErrDuplicate)
	}
	return nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(user, s.config.JWT.SecretKey, s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.config.JWT.SecretKey, s.config.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/farmlink/market-backend/internal/config"
	"github.com/farmlink/market-backend/internal/models"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db            *gorm.DB
	config        *config.Config
	notifications *NotificationService
}

func NewUserService(db *gorm.DB, config *config.Config, notifications *NotificationService) *UserService {
	return &UserService{db: db, config: config, notifications: notifications}
}

type UpdateProfileRequest struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Phone              *string `json:"phone" binding:"omitempty,phone"`
	Age                *int    `json:"age" binding:"omitempty,gte=13"`
	Location           *string `json:"location"`
	DeliveryAddress    *string `json:"delivery_address"`
	DietaryPreferences *string `json:"dietary_preferences"`
	FarmName           *string `json:"farm_name"`
	FarmSize           *string `json:"farm_size"`
	FarmLocation       *string `json:"farm_location"`
	FarmDescription    *string `json:"farm_description"`
	YearsOfExperience  *int    `json:"years_of_experience" binding:"omitempty,gte=0"`
	FarmingMethods     *string `json:"farming_methods"`
}

type RateFarmerRequest struct {
	Rating int    `json:"rating" binding:"required,gte=1,lte=5"`
	Review string `json:"review"`
}

type FarmerPublicProfile struct {
	Farmer        *models.FarmerProfile `json:"farmer"`
	AverageRating float64               `json:"average_rating"`
	RatingCount   int64                 `json:"rating_count"`
	FollowerCount int64                 `json:"follower_count"`
	IsFollowing   bool                  `json:"is_following"`
}

// GetProfile returns the user together with its role profile.
func (s *UserService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	query := s.db.Preload("CustomerProfile").Preload("FarmerProfile")
	if err := query.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies partial updates to the user row and its role profile.
func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	userUpdates := map[string]interface{}{}
	if req.FirstName != nil {
		userUpdates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		userUpdates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		userUpdates["phone"] = *req.Phone
	}
	if req.Age != nil {
		userUpdates["age"] = *req.Age
	}
	if req.Location != nil {
		userUpdates["location"] = *req.Location
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(userUpdates) > 0 {
			if err := tx.Model(user).Updates(userUpdates).Error; err != nil {
				return err
			}
		}

		switch user.UserType {
		case models.UserTypeCustomer:
			profileUpdates := map[string]interface{}{}
			if req.DeliveryAddress != nil {
				profileUpdates["delivery_address"] = *req.DeliveryAddress
			}
			if req.DietaryPreferences != nil {
				profileUpdates["dietary_preferences"] = *req.DietaryPreferences
			}
			if len(profileUpdates) > 0 {
				return tx.Model(&models.CustomerProfile{}).
					Where("user_id = ?", userID).
					Updates(profileUpdates).Error
			}
		case models.UserTypeFarmer:
			profileUpdates := map[string]interface{}{}
			if req.FarmName != nil {
				profileUpdates["farm_name"] = *req.FarmName
			}
			if req.FarmSize != nil {
				profileUpdates["farm_size"] = *req.FarmSize
			}
			if req.FarmLocation != nil {
				profileUpdates["farm_location"] = *req.FarmLocation
			}
			if req.FarmDescription != nil {
				profileUpdates["farm_description"] = *req.FarmDescription
			}
			if req.YearsOfExperience != nil {
				profileUpdates["years_of_experience"] = *req.YearsOfExperience
			}
			if req.FarmingMethods != nil {
				profileUpdates["farming_methods"] = *req.FarmingMethods
			}
			if len(profileUpdates) > 0 {
				return tx.Model(&models.FarmerProfile{}).
					Where("user_id = ?", userID).
					Updates(profileUpdates).Error
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetProfile(userID)
}

// GetFarmerProfile assembles the public view of a farmer: profile, follower
// count and the rating average recomputed from stored ratings.
func (s *UserService) GetFarmerProfile(farmerID uuid.UUID, viewerCustomerID *uuid.UUID) (*FarmerPublicProfile, error) {
	var farmer models.FarmerProfile
	err := s.db.Preload("User").
		Preload("Products", "is_available = ?", true).
		First(&farmer, "id = ?", farmerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile := &FarmerPublicProfile{Farmer: &farmer}

	row := s.db.Model(&models.FarmerRating{}).
		Where("farmer_id = ?", farmerID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Row()
	if err := row.Scan(&profile.AverageRating, &profile.RatingCount); err != nil {
		return nil, err
	}

	if err := s.db.Table("farmer_followers").
		Where("farmer_profile_id = ?", farmerID).
		Count(&profile.FollowerCount).Error; err != nil {
		return nil, err
	}

	if viewerCustomerID != nil {
		var n int64
		s.db.Table("farmer_followers").
			Where("farmer_profile_id = ? AND customer_profile_id = ?", farmerID, *viewerCustomerID).
			Count(&n)
		profile.IsFollowing = n > 0
	}

	return profile, nil
}

// ListFarmers returns verified farmers, optionally filtered by location.
func (s *UserService) ListFarmers(location string, params utils.PaginationParams) (utils.PaginationResult, error) {
	var farmers []models.FarmerProfile
	query := s.db.Model(&models.FarmerProfile{}).Preload("User")
	if location != "" {
		query = query.Where("farm_location ILIKE ?", "%"+location+"%")
	}
	return utils.Paginate(query.Order("farm_name ASC"), params, &farmers)
}

// FollowFarmer toggles the follow relationship. Following notifies the
// farmer; unfollowing is silent. Returns true when the customer is following
// after the call.
func (s *UserService) FollowFarmer(customerUserID, farmerID uuid.UUID) (bool, error) {
	customer, err := s.customerProfileFor(customerUserID)
	if err != nil {
		return false, err
	}

	var farmer models.FarmerProfile
	if err := s.db.Preload("User").First(&farmer, "id = ?", farmerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	var n int64
	s.db.Table("farmer_followers").
		Where("farmer_profile_id = ? AND customer_profile_id = ?", farmer.ID, customer.ID).
		Count(&n)

	assoc := s.db.Model(customer).Association("Following")
	if n > 0 {
		if err := assoc.Delete(&farmer); err != nil {
			return false, fmt.Errorf("failed to unfollow farmer: %w", err)
		}
		return false, nil
	}

	if err := assoc.Append(&farmer); err != nil {
		return false, fmt.Errorf("failed to follow farmer: %w", err)
	}

	var follower models.User
	if err := s.db.First(&follower, "id = ?", customerUserID).Error; err == nil {
		s.notifications.Notify(farmer.UserID, models.NotificationTypeNewFollower,
			"New follower",
			fmt.Sprintf("%s is now following your farm", follower.Username))
	}

	return true, nil
}

// RateFarmer creates or updates the customer's rating of a farmer. One row
// per customer/farmer pair.
func (s *UserService) RateFarmer(customerUserID, farmerID uuid.UUID, req *RateFarmerRequest) (*models.FarmerRating, error) {
	customer, err := s.customerProfileFor(customerUserID)
	if err != nil {
		return nil, err
	}

	var farmer models.FarmerProfile
	if err := s.db.First(&farmer, "id = ?", farmerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var rating models.FarmerRating
	err = s.db.Where("farmer_id = ? AND customer_id = ?", farmer.ID, customer.ID).First(&rating).Error
	switch {
	case err == nil:
		rating.Rating = req.Rating
		rating.Review = req.Review
		if err := s.db.Save(&rating).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating = models.FarmerRating{
			FarmerID:   farmer.ID,
			CustomerID: customer.ID,
			Rating:     req.Rating,
			Review:     req.Review,
		}
		if err := s.db.Create(&rating).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return &rating, nil
}

// VerifyFarmer marks a farmer as verified. Staff only; the caller enforces
// that through middleware, the service records who acted via the audit log
// middleware.
func (s *UserService) VerifyFarmer(farmerID uuid.UUID) (*models.FarmerProfile, error) {
	var farmer models.FarmerProfile
	if err := s.db.Preload("User").First(&farmer, "id = ?", farmerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_verified":       true,
		"verification_date": &now,
	}
	if err := s.db.Model(&farmer).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.notifications.Notify(farmer.UserID, models.NotificationTypeFarmVerified,
		"Farm verified",
		"Your farm has been verified. Customers will now see a verified badge on your profile.")
	s.notifications.SendEmail(farmer.User.Email, "Your farm has been verified",
		fmt.Sprintf("Hello %s,\n\n%s is now a verified farm on FarmLink. "+
			"Customers will see a verified badge on your profile and products.",
			farmer.User.FirstName, farmer.FarmName))

	return &farmer, nil
}

// ListUsers returns all accounts, optionally filtered by user type. Staff
// only.
func (s *UserService) ListUsers(userType string, params utils.PaginationParams) (utils.PaginationResult, error) {
	var users []models.User
	query := s.db.Model(&models.User{})
	if userType != "" {
		query = query.Where("user_type = ?", userType)
	}
	return utils.Paginate(query.Order("created_at DESC"), params, &users)
}

// UpdateProfilePicture stores the uploaded picture URL on the user row.
func (s *UserService) UpdateProfilePicture(userID uuid.UUID, url string) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("profile_picture", url).Error; err != nil {
		return nil, err
	}
	user.ProfilePicture = url
	return user, nil
}

// SetVerificationDocument records an uploaded verification document on the
// farmer's profile for staff review.
func (s *UserService) SetVerificationDocument(farmerUserID uuid.UUID, documentKey string) error {
	result := s.db.Model(&models.FarmerProfile{}).
		Where("user_id = ?", farmerUserID).
		Update("verification_document", documentKey)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccessDenied
	}
	return nil
}

// CustomerProfileID resolves a user id to its customer profile id.
func (s *UserService) CustomerProfileID(userID uuid.UUID) (uuid.UUID, error) {
	profile, err := s.customerProfileFor(userID)
	if err != nil {
		return uuid.Nil, err
	}
	return profile.ID, nil
}

func (s *UserService) customerProfileFor(userID uuid.UUID) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	return &profile, nil
}

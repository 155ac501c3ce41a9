// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username       string   `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email          string   `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash   string   `json:"-" gorm:"size:255;not null"`
	UserType       UserType `json:"user_type" gorm:"type:varchar(10);not null"`
	FirstName      string   `json:"first_name" gorm:"size:100"`
	LastName       string   `json:"last_name" gorm:"size:100"`
	Phone          string   `json:"phone" gorm:"size:17"`
	Age            *int     `json:"age"`
	Location       string   `json:"location" gorm:"size:255"`
	ProfilePicture string   `json:"profile_picture" gorm:"size:512"`
	IsStaff        bool     `json:"is_staff" gorm:"default:false"`

	// Relationships
	CustomerProfile *CustomerProfile `json:"customer_profile,omitempty" gorm:"foreignKey:UserID"`
	FarmerProfile   *FarmerProfile   `json:"farmer_profile,omitempty" gorm:"foreignKey:UserID"`
	Notifications   []Notification   `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

type CustomerProfile struct {
	BaseModel
	UserID             uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	DeliveryAddress    string    `json:"delivery_address" gorm:"type:text"`
	DietaryPreferences string    `json:"dietary_preferences" gorm:"size:200"`

	// Relationships
	User      User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Following []FarmerProfile `json:"following,omitempty" gorm:"many2many:farmer_followers;"`
}

type FarmerProfile struct {
	BaseModel
	UserID               uuid.UUID  `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	FarmName             string     `json:"farm_name" gorm:"size:200"`
	FarmSize             string     `json:"farm_size" gorm:"size:100"`
	FarmLocation         string     `json:"farm_location" gorm:"size:200"`
	FarmDescription      string     `json:"farm_description" gorm:"type:text"`
	YearsOfExperience    int        `json:"years_of_experience" gorm:"default:0"`
	FarmingMethods       string     `json:"farming_methods" gorm:"size:200"`
	IsVerified           bool       `json:"is_verified" gorm:"default:false"`
	VerificationDate     *time.Time `json:"verification_date"`
	VerificationDocument string     `json:"verification_document" gorm:"size:512"`

	// Relationships
	User      User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Products  []Product         `json:"products,omitempty" gorm:"foreignKey:FarmerID"`
	Followers []CustomerProfile `json:"followers,omitempty" gorm:"many2many:farmer_followers;"`
	Ratings   []FarmerRating    `json:"ratings,omitempty" gorm:"foreignKey:FarmerID"`
}

type FarmerRating struct {
	BaseModel
	FarmerID   uuid.UUID `json:"farmer_id" gorm:"type:uuid;not null;uniqueIndex:idx_farmer_ratings_pair"`
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;uniqueIndex:idx_farmer_ratings_pair"`
	Rating     int       `json:"rating" gorm:"not null"`
	Review     string    `json:"review" gorm:"type:text"`

	// Relationships
	Farmer   FarmerProfile   `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Customer CustomerProfile `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

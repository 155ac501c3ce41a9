// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/farmlink/market-backend/internal/models"
	"github.com/farmlink/market-backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCustomerCreatesProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.RegisterCustomer(&RegisterCustomerRequest{
		Username:  "amina",
		Email:     "amina@example.com",
		Password:  "Secret123",
		FirstName: "Amina",
		LastName:  "Hassan",
	})
	require.NoError(t, err)

	assert.Equal(t, models.UserTypeCustomer, resp.User.UserType)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)

	var profile models.CustomerProfile
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&profile).Error)
}

func TestRegisterFarmerCreatesUnverifiedProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.RegisterFarmer(&RegisterFarmerRequest{
		Username:  "omondi",
		Email:     "omondi@example.com",
		Password:  "Secret123",
		FirstName: "Omondi",
		LastName:  "Otieno",
		FarmName:  "Lakeview Farm",
	})
	require.NoError(t, err)

	var profile models.FarmerProfile
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&profile).Error)
	assert.Equal(t, "Lakeview Farm", profile.FarmName)
	assert.False(t, profile.IsVerified)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewAuthService(db, testConfig())

	_, err := svc.RegisterCustomer(&RegisterCustomerRequest{
		Username:  f.customerUser.Username,
		Email:     "new@example.com",
		Password:  "Secret123",
		FirstName: "New",
		LastName:  "User",
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.RegisterCustomer(&RegisterCustomerRequest{
		Username:  "brandnew",
		Email:     f.customerUser.Email,
		Password:  "Secret123",
		FirstName: "New",
		LastName:  "User",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Login(&LoginRequest{Username: f.customerUser.Username, Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, f.customerUser.ID, resp.User.ID)

	claims, err := utils.ValidateToken(resp.Token, testConfig().JWT.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, f.customerUser.ID, claims.UserID)
	assert.Equal(t, models.UserTypeCustomer, claims.UserType)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Login(&LoginRequest{Username: f.customerUser.Username, Password: "WrongPass1"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Login(&LoginRequest{Username: "ghost", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	f := createFixtures(t, db)
	svc := NewAuthService(db, testConfig())

	login, err := svc.Login(&LoginRequest{Username: f.customerUser.Username, Password: "Secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, f.customerUser.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.Token)

	_, err = svc.RefreshToken("not-a-token")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

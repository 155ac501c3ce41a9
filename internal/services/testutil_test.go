// internal/services/testutil_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/farmlink/market-backend/internal/config"
	"github.com/farmlink/market-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Each test gets its own named in-memory database; cache=shared keeps it
	// alive across the pool's connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.CustomerProfile{},
		&models.FarmerProfile{},
		&models.FarmerRating{},
		&models.Category{},
		&models.Product{},
		&models.ProductReview{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Payment: config.PaymentConfig{
			Currency: "usd",
		},
		I18n: config.I18nConfig{
			DefaultLocale: "en",
		},
	}
}

type fixtures struct {
	customerUser    models.User
	customerProfile models.CustomerProfile
	farmerUser      models.User
	farmerProfile   models.FarmerProfile
	category        models.Category
	product         models.Product
}

// createFixtures seeds a customer, a farmer with one product in stock, and a
// category.
func createFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()

	f := fixtures{}

	f.customerUser = models.User{
		Username: "wanjiku",
		Email:    "wanjiku@example.com",
		UserType: models.UserTypeCustomer,
	}
	require.NoError(t, f.customerUser.SetPassword("Secret123"))
	require.NoError(t, db.Create(&f.customerUser).Error)

	f.customerProfile = models.CustomerProfile{UserID: f.customerUser.ID}
	require.NoError(t, db.Create(&f.customerProfile).Error)

	f.farmerUser = models.User{
		Username: "kamau",
		Email:    "kamau@example.com",
		UserType: models.UserTypeFarmer,
	}
	require.NoError(t, f.farmerUser.SetPassword("Secret123"))
	require.NoError(t, db.Create(&f.farmerUser).Error)

	f.farmerProfile = models.FarmerProfile{
		UserID:       f.farmerUser.ID,
		FarmName:     "Green Valley Farm",
		FarmLocation: "Nakuru",
	}
	require.NoError(t, db.Create(&f.farmerProfile).Error)

	f.category = models.Category{Name: "Vegetables"}
	require.NoError(t, db.Create(&f.category).Error)

	f.product = models.Product{
		FarmerID:    f.farmerProfile.ID,
		CategoryID:  f.category.ID,
		Name:        "Kale",
		Price:       2.50,
		Stock:       5,
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&f.product).Error)

	return f
}

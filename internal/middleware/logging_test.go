// internal/middleware/logging_test.go
package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/farmlink/market-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuditTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	router := gin.New()
	router.Use(AuditLog(db))
	return db, router
}

func TestAuditLogRecordsPayloadAndResource(t *testing.T) {
	db, router := setupAuditTest(t)

	router.PUT("/v1/products/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	productID := uuid.New()
	body := `{"name":"Kale","price":2.5,"password":"should-not-persist"}`
	req := httptest.NewRequest(http.MethodPut, "/v1/products/"+productID.String(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var log models.AuditLog
	require.NoError(t, db.First(&log).Error)
	assert.Equal(t, "PUT /v1/products/:id", log.Action)
	assert.Equal(t, "products", log.ResourceType)
	require.NotNil(t, log.ResourceID)
	assert.Equal(t, productID, *log.ResourceID)
	assert.Equal(t, "Kale", log.NewValues["name"])
	assert.NotContains(t, log.NewValues, "password")
}

func TestAuditLogBodyStillReachesHandler(t *testing.T) {
	_, router := setupAuditTest(t)

	var bound struct {
		Name string `json:"name"`
	}
	router.POST("/v1/products", func(c *gin.Context) {
		require.NoError(t, c.ShouldBindJSON(&bound))
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/products", strings.NewReader(`{"name":"Spinach"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "Spinach", bound.Name)
}

func TestAuditLogSkipsReadsAndFailures(t *testing.T) {
	db, router := setupAuditTest(t)

	router.GET("/v1/products", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/v1/products", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/products", strings.NewReader(`{}`)))

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

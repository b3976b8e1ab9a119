package discountControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/junaidrashid-git/storefront-api/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DiscountCode{}))

	r := gin.New()
	r.POST("/discounts/validate", ValidateDiscountHandler(db))
	r.POST("/admin/discounts", CreateDiscountHandler(db))
	return r, db
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateDiscountPreview(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, db.Create(&models.DiscountCode{
		Code:               "SAVE20",
		DiscountPercentage: 20,
		ExpiryDate:         time.Now().Add(24 * time.Hour),
		IsActive:           true,
		UsageLimit:         5,
	}).Error)

	w := postJSON(t, r, "/discounts/validate", gin.H{"code": "SAVE20", "subtotal": "25.00"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Code               string `json:"code"`
			DiscountPercentage int    `json:"discount_percentage"`
			DiscountAmount     string `json:"discount_amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SAVE20", resp.Data.Code)
	assert.Equal(t, 20, resp.Data.DiscountPercentage)
	assert.Equal(t, "5", resp.Data.DiscountAmount)

	// Preview never consumes usage
	var got models.DiscountCode
	require.NoError(t, db.Where("code = ?", "SAVE20").First(&got).Error)
	assert.Equal(t, 0, got.UsedCount)
}

func TestValidateDiscountRejections(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, db.Create(&models.DiscountCode{
		Code:               "OLD",
		DiscountPercentage: 10,
		ExpiryDate:         time.Now().Add(-time.Hour),
		IsActive:           true,
		UsageLimit:         5,
	}).Error)

	w := postJSON(t, r, "/discounts/validate", gin.H{"code": "NOPE"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postJSON(t, r, "/discounts/validate", gin.H{"code": "OLD"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/discounts/validate", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDiscountDefaultsUsageLimit(t *testing.T) {
	r, db := newTestRouter(t)

	w := postJSON(t, r, "/admin/discounts", gin.H{
		"code":                "NEW10",
		"discount_percentage": 10,
		"expiry_date":         time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var got models.DiscountCode
	require.NoError(t, db.Where("code = ?", "NEW10").First(&got).Error)
	assert.Equal(t, 100, got.UsageLimit)
	assert.True(t, got.IsActive)
}

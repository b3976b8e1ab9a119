package discountControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/ledger"
	"github.com/junaidrashid-git/storefront-api/models"
)

type CreateDiscountRequest struct {
	Code               string    `json:"code" binding:"required"`
	DiscountPercentage int       `json:"discount_percentage" binding:"required,min=1,max=100"`
	ExpiryDate         time.Time `json:"expiry_date" binding:"required"`
	UsageLimit         int       `json:"usage_limit"`
}

type ValidateDiscountRequest struct {
	Code     string           `json:"code" binding:"required"`
	Subtotal *decimal.Decimal `json:"subtotal"`
}

func discountStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrDiscountNotFound):
		return http.StatusNotFound, "Invalid code"
	case errors.Is(err, ledger.ErrDiscountInactive):
		return http.StatusBadRequest, "Invalid code"
	case errors.Is(err, ledger.ErrDiscountExpired):
		return http.StatusBadRequest, "Code expired"
	case errors.Is(err, ledger.ErrDiscountLimitReached):
		return http.StatusBadRequest, "Usage limit reached"
	default:
		return http.StatusInternalServerError, "Server Error"
	}
}

// POST /admin/discounts
func CreateDiscountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		discount := models.DiscountCode{
			Code:               req.Code,
			DiscountPercentage: req.DiscountPercentage,
			ExpiryDate:         req.ExpiryDate,
			IsActive:           true,
			UsageLimit:         req.UsageLimit,
		}
		if discount.UsageLimit <= 0 {
			discount.UsageLimit = 100
		}
		if err := db.Create(&discount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create discount code"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": discount})
	}
}

// POST /discounts/validate
//
// Read-only preview for the checkout page. Never consumes usage: used_count
// moves only when an order settles with the code.
func ValidateDiscountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValidateDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		discount, err := ledger.ValidateDiscount(db, req.Code, time.Now())
		if err != nil {
			status, msg := discountStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}

		resp := gin.H{
			"code":                discount.Code,
			"discount_percentage": discount.DiscountPercentage,
			"expiry_date":         discount.ExpiryDate,
		}
		if req.Subtotal != nil {
			resp["discount_amount"] = req.Subtotal.
				Mul(decimal.NewFromInt(int64(discount.DiscountPercentage))).
				Div(decimal.NewFromInt(100)).
				Round(2)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
	}
}

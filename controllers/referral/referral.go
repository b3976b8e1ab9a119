package referralControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
)

// GetMyReferralsHandler lists the people the caller has brought in.
func GetMyReferralsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var referrals []models.Referral
		if err := db.
			Where("referrer_id = ?", userIDVal.(uint)).
			Preload("ReferredUser", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "name", "email", "created_at")
			}).
			Order("created_at DESC").
			Find(&referrals).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referrals"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(referrals), "data": referrals})
	}
}

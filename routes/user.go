package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	discountControllers "github.com/junaidrashid-git/storefront-api/controllers/discount"
	referralControllers "github.com/junaidrashid-git/storefront-api/controllers/referral"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	user := r.Group("/user", middleware.ValidateToken)
	{
		user.GET("", userControllers.GetUser(db))
		user.PUT("", userControllers.UpdateUser(db))

		user.GET("/cart", cartControllers.GetUserCart(db))
		user.POST("/cart", cartControllers.AddToCart(db))
		user.PUT("/cart/:itemID", cartControllers.UpdateCartItem(db))
		user.DELETE("/cart/:itemID", cartControllers.DeleteCartItem(db))
		user.DELETE("/cart", cartControllers.ClearUserCart(db))

		user.GET("/referrals", referralControllers.GetMyReferralsHandler(db))
	}

	r.POST("/discounts/validate", middleware.ValidateToken, discountControllers.ValidateDiscountHandler(db))
}

package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	discountControllers "github.com/junaidrashid-git/storefront-api/controllers/discount"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	admin := r.Group("/admin", middleware.ValidateAPIKey)
	{
		admin.POST("/products", productcontroller.CreateProduct(db))
		admin.PUT("/products/:productID", productcontroller.UpdateProduct(db))
		admin.DELETE("/products/:productID", productcontroller.DeleteProduct(db))
		admin.GET("/products/export", productcontroller.ExportProductsToExcel(db))

		admin.POST("/categories", productcontroller.CreateCategory(db))
		admin.DELETE("/categories/:categoryID", productcontroller.DeleteCategory(db))

		admin.POST("/discounts", discountControllers.CreateDiscountHandler(db))

		admin.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		admin.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))

		admin.GET("/users", userControllers.GetAllUsers(db))
	}
}

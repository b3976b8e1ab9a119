package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
)

func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		products.GET("/", productcontroller.GetAllProducts(db))
		products.GET("/:productID", productcontroller.GetProduct(db))
	}

	r.GET("/categories", productcontroller.GetAllCategories(db))
}

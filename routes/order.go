package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders", middleware.ValidateToken)
	{
		// Settle the caller's cart into an order
		orders.POST("", orderControllers.PlaceOrderHandler(db))

		// Dry-run pricing for the checkout page
		orders.POST("/preview", orderControllers.PreviewOrderHandler(db))

		orders.GET("", orderControllers.GetMyOrdersHandler(db))
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
	}

	// Websocket feed of newly settled orders (admin dashboards)
	r.GET("/orders/ws", orderControllers.OrderWebSocketHandler)
}

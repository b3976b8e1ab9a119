package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authControllers "github.com/junaidrashid-git/storefront-api/controllers/auth"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authControllers.SignupHandler(db))
		auth.POST("/login", authControllers.LoginHandler(db))
		auth.GET("/logout", authControllers.LogoutHandler())
		auth.GET("/me", middleware.ValidateToken, authControllers.MeHandler(db))
	}
}

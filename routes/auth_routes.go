package routes

import (
	"github.com/gin-gonic/gin"

	"scribehub/controllers"
	"scribehub/middleware"
)

func RegisterAuthRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	authController := controllers.NewAuthController(
		container.AuthService,
		container.UserService,
		container.NotificationService,
	)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
		auth.GET("/google", authController.GoogleAuth)
		auth.GET("/google/callback", authController.GoogleCallback)
	}

	authenticated := api.Group("/auth")
	authenticated.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		authenticated.GET("/me", authController.GetMe)
		authenticated.PUT("/me", authController.UpdateMe)
		authenticated.POST("/change-password", authController.ChangePassword)
		authenticated.GET("/users", authController.ListUsers)
	}
}

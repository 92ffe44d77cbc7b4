package routes

import (
	"github.com/gin-gonic/gin"

	"scribehub/controllers"
	"scribehub/middleware"
)

func RegisterNotificationRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	notificationController := controllers.NewNotificationController(container.NotificationService)

	notifications := api.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		notifications.GET("", notificationController.GetNotifications)
		notifications.PATCH("/:id/read", notificationController.MarkNotificationRead)
	}
}

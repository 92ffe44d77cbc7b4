package routes

import (
	"github.com/gin-gonic/gin"

	"scribehub/controllers"
	"scribehub/middleware"
)

func RegisterTrashRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	trashController := controllers.NewTrashController(container.TrashService)

	trash := api.Group("/trash")
	trash.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		trash.GET("", trashController.GetTrashItems)
	}
}

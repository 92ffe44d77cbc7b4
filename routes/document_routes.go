package routes

import (
	"github.com/gin-gonic/gin"

	"scribehub/controllers"
	"scribehub/middleware"
)

func RegisterDocumentRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	documentController := controllers.NewDocumentController(container.DocumentService)
	collaboratorController := controllers.NewCollaboratorController(container.CollaboratorService)

	docs := api.Group("/documents")
	docs.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		docs.POST("", documentController.CreateDocument)
		docs.GET("", documentController.ListDocuments)
		docs.GET("/mine", documentController.MyDocuments)
		docs.GET("/search", documentController.SearchDocuments)
		docs.GET("/:id", documentController.GetDocument)
		docs.PUT("/:id", documentController.UpdateDocument)
		docs.DELETE("/:id", documentController.DeleteDocument) // hard delete, bypasses trash

		docs.PATCH("/:id/trash", documentController.SoftDelete)
		docs.PATCH("/:id/restore", documentController.Restore)
		docs.DELETE("/:id/permanent", documentController.PermanentlyDelete)

		docs.POST("/:id/collaborators", collaboratorController.AddCollaborator)
		docs.DELETE("/:id/collaborators/:userId", collaboratorController.RemoveCollaborator)
		docs.PATCH("/:id/collaborators/:userId", collaboratorController.UpdatePermission)
	}
}

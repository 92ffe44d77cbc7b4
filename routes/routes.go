package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"scribehub/config"
	"scribehub/services"
)

// ServiceContainer holds all services and shared dependencies.
type ServiceContainer struct {
	DB                  *mongo.Database
	JWTSecret           string
	AuthService         *services.AuthService
	UserService         *services.UserService
	NotificationService *services.NotificationService
	DocumentService     *services.DocumentService
	CollaboratorService *services.CollaboratorService
	TrashService        *services.TrashService
}

// NewServiceContainer wires the service graph. The mention pipeline
// connects the document service to the user directory and the
// notification dispatcher.
func NewServiceContainer(db *mongo.Database, cfg *config.Config) *ServiceContainer {
	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db, cfg.MailgunAPIKey, cfg.MailgunDomain, cfg.FromEmail)
	pipeline := services.NewMentionPipeline(userService, notificationService)

	documentService := services.NewDocumentService(db, pipeline)
	collaboratorService := services.NewCollaboratorService(db, userService, notificationService)
	trashService := services.NewTrashService(db, cfg.TrashRetentionDays)
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiration,
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	return &ServiceContainer{
		DB:                  db,
		JWTSecret:           cfg.JWTSecret,
		AuthService:         authService,
		UserService:         userService,
		NotificationService: notificationService,
		DocumentService:     documentService,
		CollaboratorService: collaboratorService,
		TrashService:        trashService,
	}
}

// SetupRoutes registers all route groups on the API router group.
func SetupRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterAuthRoutes(api, container)
	RegisterDocumentRoutes(api, container)
	RegisterTrashRoutes(api, container)
	RegisterNotificationRoutes(api, container)
}

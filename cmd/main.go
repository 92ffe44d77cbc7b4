package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"scribehub/config"
	"scribehub/jobs"
	"scribehub/routes"
	"scribehub/services"
	"scribehub/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.LoadConfig()
	cfg := config.AppConfig

	ctx, cancel := config.CreateContext(10 * time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	utils.LogInfo("Connected to MongoDB successfully")

	db := mongoClient.Database(cfg.DatabaseName)
	config.DB = db

	container := routes.NewServiceContainer(db, cfg)

	router := gin.Default()
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api")
	routes.SetupRoutes(api, container)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	if cfg.TrashCleanupInterval > 0 {
		trashService := services.NewTrashService(db, cfg.TrashRetentionDays)
		cleaner := jobs.NewTrashCleaner(trashService, cfg.TrashCleanupInterval)
		go cleaner.Start()
		utils.LogInfo(fmt.Sprintf("Started trash cleanup job running every %v", cfg.TrashCleanupInterval))
	}

	utils.LogInfo(fmt.Sprintf("Starting ScribeHub server on port %s", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		allowOrigin := ""
		if len(allowedOrigins) == 0 {
			allowOrigin = "*"
		} else {
			for _, origin := range allowedOrigins {
				if origin == "*" || origin == requestOrigin {
					allowOrigin = origin
					break
				}
			}
			if allowOrigin == "" && requestOrigin == "" {
				allowOrigin = allowedOrigins[0]
			}
		}

		if allowOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
			c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"scribehub/middleware"
	"scribehub/services"
	"scribehub/utils"
)

type NotificationController struct {
	notificationService *services.NotificationService
}

func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	notifications, err := nc.notificationService.GetNotifications(c.Request.Context(), caller)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to fetch notifications", err.Error())
		return
	}

	utils.SuccessResponse(c, "Notifications fetched", notifications)
}

func (nc *NotificationController) MarkNotificationRead(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", nil)
		return
	}

	if err := nc.notificationService.MarkNotificationRead(c.Request.Context(), caller, notificationID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			utils.NotFoundResponse(c, "Notification not found")
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, "User not found")
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to mark notification read", err.Error())
		}
		return
	}

	utils.SuccessResponse(c, "Notification marked as read", nil)
}

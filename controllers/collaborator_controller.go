package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"scribehub/models"
	"scribehub/services"
	"scribehub/utils"
)

type CollaboratorController struct {
	collaboratorService *services.CollaboratorService
	validator           *validator.Validate
}

func NewCollaboratorController(collaboratorService *services.CollaboratorService) *CollaboratorController {
	return &CollaboratorController{
		collaboratorService: collaboratorService,
		validator:           validator.New(),
	}
}

type AddCollaboratorRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Permission string `json:"permission" validate:"omitempty,oneof=view edit"`
}

type UpdatePermissionRequest struct {
	Permission string `json:"permission" validate:"required,oneof=view edit"`
}

// AddCollaborator shares the document with the user identified by
// email. Open to any authenticated caller, matching current product
// behavior.
func (cc *CollaboratorController) AddCollaborator(c *gin.Context) {
	sharerName := c.GetString("name")

	var req AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}
	if err := cc.validator.Struct(req); err != nil {
		utils.BadRequestResponse(c, "Validation failed", err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Permission == "" {
		req.Permission = models.PermissionView
	}

	doc, err := cc.collaboratorService.ShareDocument(c.Request.Context(), c.Param("id"), req.Email, req.Permission, sharerName)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Collaborator added", doc)
}

func (cc *CollaboratorController) RemoveCollaborator(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	doc, err := cc.collaboratorService.RemoveCollaborator(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Collaborator removed", doc)
}

func (cc *CollaboratorController) UpdatePermission(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}
	if err := cc.validator.Struct(req); err != nil {
		utils.BadRequestResponse(c, "Validation failed", err.Error())
		return
	}

	doc, err := cc.collaboratorService.UpdatePermission(c.Request.Context(), c.Param("id"), userID, req.Permission)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Permission updated", doc)
}

func (cc *CollaboratorController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDocumentNotFound):
		utils.NotFoundResponse(c, "Document not found")
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, "User not found")
	case errors.Is(err, services.ErrAlreadyCollaborator):
		utils.ConflictResponse(c, "User already a collaborator", nil)
	case errors.Is(err, services.ErrCollaboratorNotFound):
		utils.NotFoundResponse(c, "Collaborator not found")
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "Collaborator operation failed", err.Error())
	}
}

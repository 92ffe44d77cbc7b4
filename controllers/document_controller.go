package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"scribehub/middleware"
	"scribehub/services"
	"scribehub/utils"
)

type DocumentController struct {
	documentService *services.DocumentService
}

func NewDocumentController(documentService *services.DocumentService) *DocumentController {
	return &DocumentController{
		documentService: documentService,
	}
}

type CreateDocumentRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Visibility string `json:"visibility"`
}

func (dc *DocumentController) CreateDocument(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	doc, err := dc.documentService.CreateDocument(c.Request.Context(), caller, req.Title, req.Content, req.Visibility)
	if err != nil {
		dc.respondError(c, err, "Failed to create document")
		return
	}

	utils.CreatedResponse(c, "Document created", doc)
}

func (dc *DocumentController) UpdateDocument(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	var req services.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	doc, err := dc.documentService.UpdateDocument(c.Request.Context(), c.Param("id"), caller, req)
	if err != nil {
		dc.respondError(c, err, "Failed to update document")
		return
	}

	utils.SuccessResponse(c, "Document updated", doc)
}

func (dc *DocumentController) GetDocument(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	doc, err := dc.documentService.GetDocument(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		dc.respondError(c, err, "Failed to fetch document")
		return
	}

	utils.SuccessResponse(c, "Document fetched", doc)
}

func (dc *DocumentController) ListDocuments(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	showDeleted := c.Query("deleted") == "true"

	docs, err := dc.documentService.ListDocuments(c.Request.Context(), caller, showDeleted)
	if err != nil {
		dc.respondError(c, err, "Failed to list documents")
		return
	}

	utils.SuccessResponse(c, "Documents fetched", docs)
}

func (dc *DocumentController) MyDocuments(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	docs, err := dc.documentService.MyDocuments(c.Request.Context(), caller)
	if err != nil {
		dc.respondError(c, err, "Failed to list documents")
		return
	}

	utils.SuccessResponse(c, "Documents fetched", docs)
}

func (dc *DocumentController) SearchDocuments(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	query := c.Query("q")
	if query == "" {
		utils.BadRequestResponse(c, "Search query is required", nil)
		return
	}

	docs, err := dc.documentService.SearchDocuments(c.Request.Context(), caller, query)
	if err != nil {
		dc.respondError(c, err, "Search failed")
		return
	}

	utils.SuccessResponse(c, "Search results", docs)
}

func (dc *DocumentController) SoftDelete(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	if err := dc.documentService.SoftDelete(c.Request.Context(), c.Param("id"), caller); err != nil {
		dc.respondError(c, err, "Failed to move document to trash")
		return
	}

	utils.SuccessResponse(c, "Document moved to trash", nil)
}

func (dc *DocumentController) Restore(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	if err := dc.documentService.Restore(c.Request.Context(), c.Param("id"), caller); err != nil {
		dc.respondError(c, err, "Failed to restore document")
		return
	}

	utils.SuccessResponse(c, "Document restored", nil)
}

func (dc *DocumentController) DeleteDocument(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	if err := dc.documentService.DeleteDocument(c.Request.Context(), c.Param("id"), caller); err != nil {
		dc.respondError(c, err, "Failed to delete document")
		return
	}

	utils.SuccessResponse(c, "Document deleted", nil)
}

func (dc *DocumentController) PermanentlyDelete(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	if err := dc.documentService.PermanentlyDelete(c.Request.Context(), c.Param("id"), caller); err != nil {
		dc.respondError(c, err, "Failed to permanently delete document")
		return
	}

	utils.SuccessResponse(c, "Document permanently deleted", nil)
}

func (dc *DocumentController) respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrDocumentNotFound):
		utils.NotFoundResponse(c, "Document not found")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err.Error())
	}
}

package controllers

import (
	"github.com/gin-gonic/gin"

	"scribehub/middleware"
	"scribehub/services"
	"scribehub/utils"
)

type TrashController struct {
	trashService *services.TrashService
}

func NewTrashController(trashService *services.TrashService) *TrashController {
	return &TrashController{
		trashService: trashService,
	}
}

// GetTrashItems lists the caller's trashed documents with their
// auto-purge dates.
func (tc *TrashController) GetTrashItems(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	items, err := tc.trashService.GetTrashItems(c.Request.Context(), caller)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to fetch trash", err.Error())
		return
	}

	utils.SuccessResponse(c, "Trash fetched", items)
}

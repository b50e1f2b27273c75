package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/app/services"
	"github.com/isms-esp/diploma-registry/internal/middleware"
)

// StructureController handles the diploma template configuration
type StructureController struct {
	structureService *services.StructureService
}

// NewStructureController creates a new StructureController
func NewStructureController(structureService *services.StructureService) *StructureController {
	return &StructureController{structureService: structureService}
}

// Get returns the active structure
// @Summary Get the active diploma structure
// @Tags structure
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.DiplomaStructure}
// @Router /structure [get]
func (c *StructureController) Get(ctx *gin.Context) {
	structure, err := c.structureService.GetActive(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(structure))
}

// Save creates or updates the structure
// @Summary Save the diploma structure
// @Tags structure
// @Security BearerAuth
// @Param request body models.DiplomaStructure true "Structure"
// @Success 200 {object} dto.APIResponse{data=models.DiplomaStructure}
// @Router /structure [put]
func (c *StructureController) Save(ctx *gin.Context) {
	var structure models.DiplomaStructure
	if err := ctx.ShouldBindJSON(&structure); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid structure data").WithDetails(err.Error())))
		return
	}

	saved, err := c.structureService.Save(ctx, &structure)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(saved))
}

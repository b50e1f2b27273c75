package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/app/services"
	"github.com/isms-esp/diploma-registry/internal/middleware"
)

// CatalogController handles programs and academic years
type CatalogController struct {
	catalogService *services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// CreateProgram registers a program
// @Summary Create a program
// @Tags catalog
// @Security BearerAuth
// @Param request body models.Program true "Program"
// @Success 201 {object} dto.APIResponse{data=models.Program}
// @Router /programs [post]
func (c *CatalogController) CreateProgram(ctx *gin.Context) {
	var program models.Program
	if err := ctx.ShouldBindJSON(&program); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid program data").WithDetails(err.Error())))
		return
	}

	if err := c.catalogService.CreateProgram(ctx, &program); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(program))
}

// ListPrograms returns all programs
// @Summary List programs
// @Tags catalog
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Program}
// @Router /programs [get]
func (c *CatalogController) ListPrograms(ctx *gin.Context) {
	programs, err := c.catalogService.ListPrograms(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(programs))
}

// UpdateProgram modifies a program
// @Summary Update a program
// @Tags catalog
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param request body models.Program true "Program"
// @Success 200 {object} dto.APIResponse{data=models.Program}
// @Router /programs/{id} [put]
func (c *CatalogController) UpdateProgram(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var program models.Program
	if err := ctx.ShouldBindJSON(&program); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid program data").WithDetails(err.Error())))
		return
	}
	program.ID = id

	if err := c.catalogService.UpdateProgram(ctx, &program); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(program))
}

// DeleteProgram removes a program without students
// @Summary Delete a program
// @Tags catalog
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 200 {object} dto.APIResponse
// @Router /programs/{id} [delete]
func (c *CatalogController) DeleteProgram(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteProgram(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Program deleted"))
}

// CreateAcademicYear registers an academic year
// @Summary Create an academic year
// @Tags catalog
// @Security BearerAuth
// @Param request body models.AcademicYear true "Academic year"
// @Success 201 {object} dto.APIResponse{data=models.AcademicYear}
// @Router /academic-years [post]
func (c *CatalogController) CreateAcademicYear(ctx *gin.Context) {
	var year models.AcademicYear
	if err := ctx.ShouldBindJSON(&year); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid academic year data").WithDetails(err.Error())))
		return
	}

	if err := c.catalogService.CreateAcademicYear(ctx, &year); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(year))
}

// ListAcademicYears returns all academic years
// @Summary List academic years
// @Tags catalog
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.AcademicYear}
// @Router /academic-years [get]
func (c *CatalogController) ListAcademicYears(ctx *gin.Context) {
	years, err := c.catalogService.ListAcademicYears(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(years))
}

// DeleteAcademicYear removes an unreferenced academic year
// @Summary Delete an academic year
// @Tags catalog
// @Security BearerAuth
// @Param id path int true "Academic year ID"
// @Success 200 {object} dto.APIResponse
// @Router /academic-years/{id} [delete]
func (c *CatalogController) DeleteAcademicYear(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteAcademicYear(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Academic year deleted"))
}

package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/app/services"
	"github.com/isms-esp/diploma-registry/internal/middleware"
)

// DiplomaController handles issuance, listing, download and revocation
type DiplomaController struct {
	issuanceService   *services.IssuanceService
	diplomaService    *services.DiplomaService
	revocationService *services.RevocationService
	renderer          services.DocumentRenderer
}

// NewDiplomaController creates a new DiplomaController
func NewDiplomaController(
	issuanceService *services.IssuanceService,
	diplomaService *services.DiplomaService,
	revocationService *services.RevocationService,
	renderer services.DocumentRenderer,
) *DiplomaController {
	return &DiplomaController{
		issuanceService:   issuanceService,
		diplomaService:    diplomaService,
		revocationService: revocationService,
		renderer:          renderer,
	}
}

// Generate issues one diploma for a student
// @Summary Issue a diploma
// @Tags diplomas
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param type query string false "Diploma type"
// @Success 201 {object} dto.APIResponse{data=dto.IssueDiplomaResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failure or already issued"
// @Router /diplomas/generate/{studentId} [post]
func (c *DiplomaController) Generate(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "studentId")
	if !ok {
		return
	}

	diploma, err := c.issuanceService.Issue(ctx, studentID, ctx.Query("type"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.IssueDiplomaResponse{
		Message:         "Diplôme généré avec succès",
		VerificationURL: c.renderer.VerificationURL(diploma.VerificationID),
		UUID:            diploma.VerificationID,
		Number:          diploma.Number,
		AwardYear:       diploma.AwardYear,
	}))
}

// GenerateByProgram issues diplomas for a whole program and year
// @Summary Issue diplomas in batch
// @Tags diplomas
// @Security BearerAuth
// @Param request body dto.BatchIssueRequest true "Selection"
// @Success 200 {object} dto.APIResponse{data=dto.BatchIssueResponse}
// @Router /diplomas/generate-by-program [post]
func (c *DiplomaController) GenerateByProgram(ctx *gin.Context) {
	var req dto.BatchIssueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid batch request").WithDetails(err.Error())))
		return
	}

	resp, err := c.issuanceService.BatchIssue(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// List returns issued diplomas with optional filters
// @Summary List diplomas
// @Tags diplomas
// @Security BearerAuth
// @Param annee query int false "Award year filter"
// @Param programId query int false "Program filter"
// @Param cancelled query bool false "Cancellation filter"
// @Success 200 {object} dto.APIResponse
// @Router /diplomas [get]
func (c *DiplomaController) List(ctx *gin.Context) {
	var awardYear *int
	if raw := ctx.Query("annee"); raw != "" {
		if y, err := strconv.Atoi(raw); err == nil && y > 0 {
			awardYear = &y
		}
	}
	programID := optionalID(ctx, "programId")

	var cancelled *bool
	if raw := ctx.Query("cancelled"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cancelled = &v
		}
	}

	page, pageSize := pagination(ctx)
	diplomas, total, err := c.diplomaService.List(ctx, awardYear, programID, cancelled, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{
		"items": diplomas,
		"total": total,
		"page":  page,
	}))
}

// GetByID returns one diploma with its holder loaded
// @Summary Get a diploma
// @Tags diplomas
// @Security BearerAuth
// @Param id path int true "Diploma ID"
// @Success 200 {object} dto.APIResponse{data=models.Diploma}
// @Failure 404 {object} dto.ErrorResponse
// @Router /diplomas/{id} [get]
func (c *DiplomaController) GetByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	diploma, err := c.diplomaService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(diploma))
}

// Download streams the sealed document of a diploma
// @Summary Download a sealed diploma
// @Tags diplomas
// @Security BearerAuth
// @Param verificationId path string true "Verification token"
// @Produce application/pdf
// @Success 200 {file} binary
// @Router /diplomas/download/{verificationId} [get]
func (c *DiplomaController) Download(ctx *gin.Context) {
	diploma, path, err := c.diplomaService.SealedDocument(ctx, ctx.Param("verificationId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	name := fmt.Sprintf("diplome_%d_%d.pdf", diploma.AwardYear, diploma.Number)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	ctx.Header("Content-Type", "application/pdf")
	ctx.File(path)
}

// Cancel revokes a diploma
// @Summary Cancel a diploma
// @Tags diplomas
// @Security BearerAuth
// @Param id path int true "Diploma ID"
// @Param request body dto.CancelDiplomaRequest true "Reason"
// @Success 200 {object} dto.APIResponse{data=models.Diploma}
// @Router /diplomas/{id}/cancel [post]
func (c *DiplomaController) Cancel(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CancelDiplomaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Cancellation reason is required").WithDetails(err.Error())))
		return
	}

	diploma, err := c.revocationService.Cancel(ctx, id, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(diploma))
}

// Reinstate clears the cancellation of a diploma
// @Summary Reinstate a cancelled diploma
// @Tags diplomas
// @Security BearerAuth
// @Param id path int true "Diploma ID"
// @Success 200 {object} dto.APIResponse{data=models.Diploma}
// @Router /diplomas/{id}/uncancel [post]
func (c *DiplomaController) Reinstate(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	diploma, err := c.revocationService.Reinstate(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(diploma))
}

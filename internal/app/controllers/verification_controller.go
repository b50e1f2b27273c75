package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/app/services"
	"github.com/isms-esp/diploma-registry/internal/middleware"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
)

// uploadSizeLimit caps verification uploads at 20 MiB.
const uploadSizeLimit = 20 << 20

// VerificationController handles the public verification endpoints and
// the admin-facing audit views.
type VerificationController struct {
	verificationService *services.VerificationService
	auditService        *services.AuditService
}

// NewVerificationController creates a new VerificationController
func NewVerificationController(
	verificationService *services.VerificationService,
	auditService *services.AuditService,
) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
		auditService:        auditService,
	}
}

// VerifyToken resolves a public verification token
// @Summary Verify a diploma by token
// @Tags verification
// @Param verificationId path string true "32-hex verification token"
// @Success 200 {object} dto.PublicDiploma
// @Failure 404 {object} dto.VerificationFailure
// @Failure 410 {object} dto.VerificationFailure "Cancelled"
// @Router /verify/{verificationId} [get]
func (c *VerificationController) VerifyToken(ctx *gin.Context) {
	view, err := c.verificationService.VerifyByToken(ctx, ctx.Param("verificationId"), ctx.ClientIP())
	if err != nil {
		c.respondFailure(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// VerifyFile authenticates an uploaded document
// @Summary Verify a diploma by file
// @Tags verification
// @Accept multipart/form-data
// @Param file formData file true "Sealed PDF"
// @Success 200 {object} dto.PublicDiploma
// @Failure 400 {object} dto.VerificationFailure "Unsigned or tampered"
// @Failure 404 {object} dto.VerificationFailure
// @Router /verify-file [post]
func (c *VerificationController) VerifyFile(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.VerificationFailure{
			Error: "Un fichier PDF est requis",
		})
		return
	}
	if fileHeader.Size > uploadSizeLimit {
		ctx.JSON(http.StatusBadRequest, dto.VerificationFailure{
			Error: "Le fichier dépasse la taille maximale autorisée",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, uploadSizeLimit))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	view, err := c.verificationService.VerifyByFile(ctx, data, ctx.ClientIP())
	if err != nil {
		c.respondFailure(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// respondFailure maps a verification error to its public payload and
// status. The payload never leaks registry internals.
func (c *VerificationController) respondFailure(ctx *gin.Context, err error) {
	view := services.FailureView(err)

	status := http.StatusNotFound
	switch {
	case errors.Is(err, apperrors.ErrDiplomaCancelled):
		status = http.StatusGone
	case apperrors.Is(err, apperrors.ErrNoSignature,
		apperrors.ErrSignatureInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrMalformedToken):
		// Indistinguishable from an unknown token on the public surface.
	case !apperrors.Is(err, apperrors.ErrDiplomaNotFound):
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(status, view)
}

// ListEvents returns the verification audit trail
// @Summary List verification events
// @Tags verification
// @Security BearerAuth
// @Param diplomaId query int false "Diploma filter"
// @Success 200 {object} dto.APIResponse
// @Router /verifications [get]
func (c *VerificationController) ListEvents(ctx *gin.Context) {
	diplomaID := optionalID(ctx, "diplomaId")
	page, pageSize := pagination(ctx)

	events, total, err := c.auditService.ListEvents(ctx, diplomaID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{
		"items": events,
		"total": total,
		"page":  page,
	}))
}

// DashboardStats returns registry counters
// @Summary Dashboard statistics
// @Tags verification
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStats}
// @Router /dashboard-stats [get]
func (c *VerificationController) DashboardStats(ctx *gin.Context) {
	stats, err := c.auditService.DashboardStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

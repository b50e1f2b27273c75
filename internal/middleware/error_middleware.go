package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Controllers
// delegate every non-binding error here so status codes stay uniform.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrStudentNotFound,
		apperrors.ErrProgramNotFound,
		apperrors.ErrAcademicYearNotFound,
		apperrors.ErrDiplomaNotFound,
		apperrors.ErrSealedFileMissing):
		c.JSON(http.StatusNotFound, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})

	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})

	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})

	case errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Account is disabled"),
		})

	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Permission denied"),
		})

	case errors.Is(err, apperrors.ErrDiplomaAlreadyIssued):
		c.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeDuplicateIssuance, err.Error()),
		})

	case apperrors.Is(err, apperrors.ErrStructureMissing,
		apperrors.ErrStructureAmbiguous):
		c.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeMissingStructure, err.Error()),
		})

	case apperrors.Is(err, apperrors.ErrResourceAlreadyExists,
		apperrors.ErrMatriculeAlreadyExists,
		apperrors.ErrNNIAlreadyExists,
		apperrors.ErrAcademicYearAlreadyExists,
		apperrors.ErrPersistenceConflict,
		apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()),
		})

	case errors.Is(err, apperrors.ErrSigningFailed):
		logger.Error().Err(err).Msg("Diploma signing failed")
		c.JSON(http.StatusInternalServerError, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeSigningFailed, err.Error()),
		})

	case errors.Is(err, apperrors.ErrDiplomaCancelled):
		c.JSON(http.StatusGone, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeCancelledDiploma, err.Error()),
		})

	case apperrors.Is(err, apperrors.ErrMalformedToken,
		apperrors.ErrValidationFailed,
		apperrors.ErrBadRequest,
		apperrors.ErrInvalidYearCode,
		apperrors.ErrEmptySelection,
		apperrors.ErrNoSignature,
		apperrors.ErrSignatureInvalid):
		c.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})

	case apperrors.Is(err, apperrors.ErrStudentHasDiplomas,
		apperrors.ErrAcademicYearReferenced,
		apperrors.ErrDiplomaNotCancelled):
		c.JSON(http.StatusConflict, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})

	case errors.Is(err, apperrors.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many requests"),
		})

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}

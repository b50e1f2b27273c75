package services

import (
	"context"
	"strings"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/logger"
)

// RevocationStore is the persistence surface the revocation ledger
// depends on.
type RevocationStore interface {
	GetByID(ctx context.Context, id int64) (*models.Diploma, error)
	UpdateCancellation(ctx context.Context, id int64, cancelled bool, reason string) error
}

// RevocationService cancels and reinstates issued diplomas. A cancelled
// diploma stays in the registry and keeps its number; only its validity
// flips.
type RevocationService struct {
	diplomas RevocationStore
}

// NewRevocationService creates a revocation service.
func NewRevocationService(diplomas RevocationStore) *RevocationService {
	return &RevocationService{diplomas: diplomas}
}

// Cancel revokes a diploma with a mandatory reason. Cancelling an
// already cancelled diploma is a conflict, not a no-op, so operators
// notice disagreeing records.
func (s *RevocationService) Cancel(ctx context.Context, id int64, reason string) (*models.Diploma, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewValidationError("cancellation reason is required")
	}

	diploma, err := s.diplomas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if diploma.IsCancelled {
		return nil, apperrors.ErrConflict
	}

	if err := s.diplomas.UpdateCancellation(ctx, id, true, strings.TrimSpace(reason)); err != nil {
		return nil, err
	}

	logger.Info().Int64("diploma_id", id).Str("reason", reason).Msg("Diploma cancelled")
	return s.diplomas.GetByID(ctx, id)
}

// Reinstate clears the cancellation of a revoked diploma.
func (s *RevocationService) Reinstate(ctx context.Context, id int64) (*models.Diploma, error) {
	diploma, err := s.diplomas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !diploma.IsCancelled {
		return nil, apperrors.ErrDiplomaNotCancelled
	}

	if err := s.diplomas.UpdateCancellation(ctx, id, false, ""); err != nil {
		return nil, err
	}

	logger.Info().Int64("diploma_id", id).Msg("Diploma reinstated")
	return s.diplomas.GetByID(ctx, id)
}

package services

import (
	"context"
	"os"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/repositories"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/filestorage"
)

// DiplomaService serves the admin-facing read side of the registry:
// listings and sealed-document downloads.
type DiplomaService struct {
	diplomas *repositories.DiplomaRepository
	storage  *filestorage.LocalStorage
}

// NewDiplomaService creates a diploma query service.
func NewDiplomaService(diplomas *repositories.DiplomaRepository, storage *filestorage.LocalStorage) *DiplomaService {
	return &DiplomaService{diplomas: diplomas, storage: storage}
}

// List retrieves diplomas with optional filters.
func (s *DiplomaService) List(ctx context.Context, awardYear *int, programID *int64, cancelled *bool, page, pageSize int) ([]*models.Diploma, int64, error) {
	return s.diplomas.List(ctx, awardYear, programID, cancelled, page, pageSize)
}

// GetByID retrieves one diploma with holder and program.
func (s *DiplomaService) GetByID(ctx context.Context, id int64) (*models.Diploma, error) {
	return s.diplomas.GetByID(ctx, id)
}

// SealedDocument resolves a verification token to the stored document
// on disk. A registered diploma whose file disappeared is reported as
// such rather than as not found.
func (s *DiplomaService) SealedDocument(ctx context.Context, verificationID string) (*models.Diploma, string, error) {
	diploma, err := s.diplomas.GetByVerificationID(ctx, verificationID)
	if err != nil {
		return nil, "", err
	}

	path := s.storage.FullPath(diploma.FilePath)
	if path == "" {
		return nil, "", apperrors.ErrSealedFileMissing
	}
	if _, err := os.Stat(path); err != nil {
		return nil, "", apperrors.ErrSealedFileMissing
	}

	return diploma, path, nil
}

package services

import (
	"context"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/repositories"
)

// StructureService manages the diploma template configuration.
type StructureService struct {
	structures *repositories.StructureRepository
}

// NewStructureService creates a structure service.
func NewStructureService(structures *repositories.StructureRepository) *StructureService {
	return &StructureService{structures: structures}
}

// GetActive returns the active structure or a configuration error.
func (s *StructureService) GetActive(ctx context.Context) (*models.DiplomaStructure, error) {
	return s.structures.GetActive(ctx)
}

// Save creates the structure on first use and updates it afterwards.
// A saved structure is always marked active.
func (s *StructureService) Save(ctx context.Context, st *models.DiplomaStructure) (*models.DiplomaStructure, error) {
	st.IsActive = true

	if st.ID == 0 {
		if err := s.structures.Create(ctx, st); err != nil {
			return nil, err
		}
		return st, nil
	}

	if err := s.structures.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

package services

import (
	"context"
	"strings"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/repositories"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/validation"
)

// CatalogService manages the reference data diplomas are issued
// against: programs and academic years.
type CatalogService struct {
	programs *repositories.ProgramRepository
	years    *repositories.AcademicYearRepository
}

// NewCatalogService creates a catalog service.
func NewCatalogService(programs *repositories.ProgramRepository, years *repositories.AcademicYearRepository) *CatalogService {
	return &CatalogService{programs: programs, years: years}
}

// CreateProgram validates and persists a program.
func (s *CatalogService) CreateProgram(ctx context.Context, program *models.Program) error {
	program.Code = strings.ToUpper(strings.TrimSpace(program.Code))
	if program.Code == "" || strings.TrimSpace(program.NameFR) == "" {
		return apperrors.NewValidationError("program code and French name are required")
	}
	return s.programs.Create(ctx, program)
}

// ListPrograms returns all programs.
func (s *CatalogService) ListPrograms(ctx context.Context) ([]*models.Program, error) {
	return s.programs.GetAll(ctx)
}

// UpdateProgram persists changes to a program.
func (s *CatalogService) UpdateProgram(ctx context.Context, program *models.Program) error {
	program.Code = strings.ToUpper(strings.TrimSpace(program.Code))
	if program.Code == "" || strings.TrimSpace(program.NameFR) == "" {
		return apperrors.NewValidationError("program code and French name are required")
	}
	return s.programs.Update(ctx, program)
}

// DeleteProgram removes a program without students.
func (s *CatalogService) DeleteProgram(ctx context.Context, id int64) error {
	return s.programs.Delete(ctx, id)
}

// CreateAcademicYear validates the code format and persists the year.
func (s *CatalogService) CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error {
	year.Code = strings.TrimSpace(year.Code)
	if err := validation.ValidateAcademicYearCode(year.Code); err != nil {
		return err
	}
	return s.years.Create(ctx, year)
}

// ListAcademicYears returns all years, most recent first.
func (s *CatalogService) ListAcademicYears(ctx context.Context) ([]*models.AcademicYear, error) {
	return s.years.GetAll(ctx)
}

// DeleteAcademicYear removes a year no student references.
func (s *CatalogService) DeleteAcademicYear(ctx context.Context, id int64) error {
	return s.years.Delete(ctx, id)
}

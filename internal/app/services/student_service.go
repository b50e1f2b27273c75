package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/app/repositories"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/excel"
	"github.com/isms-esp/diploma-registry/internal/pkg/logger"
)

// StudentService manages student records and the Excel roster import.
type StudentService struct {
	students *repositories.StudentRepository
	programs *repositories.ProgramRepository
	years    *repositories.AcademicYearRepository
	parser   *excel.Parser
}

// NewStudentService creates a student service.
func NewStudentService(
	students *repositories.StudentRepository,
	programs *repositories.ProgramRepository,
	years *repositories.AcademicYearRepository,
) *StudentService {
	return &StudentService{
		students: students,
		programs: programs,
		years:    years,
		parser:   excel.NewParser(),
	}
}

// Create validates and persists a single student.
func (s *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, apperrors.NewValidationError("birthDate must be YYYY-MM-DD")
	}

	if _, err := s.programs.GetByID(ctx, req.ProgramID); err != nil {
		return nil, err
	}
	if _, err := s.years.GetByID(ctx, req.AcademicYearID); err != nil {
		return nil, err
	}

	student := &models.Student{
		NameFR:         req.NameFR,
		NameAR:         req.NameAR,
		Matricule:      req.Matricule,
		Email:          req.Email,
		NNI:            req.NNI,
		BirthDate:      birthDate,
		BirthPlaceFR:   req.BirthPlaceFR,
		BirthPlaceAR:   req.BirthPlaceAR,
		MentionFR:      req.MentionFR,
		MentionAR:      req.MentionAR,
		ProgramID:      req.ProgramID,
		AcademicYearID: req.AcademicYearID,
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// GetByID retrieves a student with its program and year.
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.students.GetByID(ctx, id)
}

// List retrieves students with optional program/year filters.
func (s *StudentService) List(ctx context.Context, programID, academicYearID *int64, page, pageSize int) ([]*models.Student, int64, error) {
	return s.students.List(ctx, programID, academicYearID, page, pageSize)
}

// Update persists changes to a student record.
func (s *StudentService) Update(ctx context.Context, id int64, req *dto.CreateStudentRequest) (*models.Student, error) {
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, apperrors.NewValidationError("birthDate must be YYYY-MM-DD")
	}

	student := &models.Student{
		ID:             id,
		NameFR:         req.NameFR,
		NameAR:         req.NameAR,
		Matricule:      req.Matricule,
		Email:          req.Email,
		NNI:            req.NNI,
		BirthDate:      birthDate,
		BirthPlaceFR:   req.BirthPlaceFR,
		BirthPlaceAR:   req.BirthPlaceAR,
		MentionFR:      req.MentionFR,
		MentionAR:      req.MentionAR,
		ProgramID:      req.ProgramID,
		AcademicYearID: req.AcademicYearID,
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	return s.students.GetByID(ctx, id)
}

// Delete removes a student without issued diplomas.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	return s.students.Delete(ctx, id)
}

// ImportRoster parses an uploaded workbook and creates one student per
// valid row, binding all of them to the given program and year. Rows
// that fail to parse or collide with existing records are reported
// individually; the rest of the import proceeds.
func (s *StudentService) ImportRoster(ctx context.Context, data []byte, programID, academicYearID int64) (*dto.ImportSummary, error) {
	if _, err := s.programs.GetByID(ctx, programID); err != nil {
		return nil, err
	}
	if _, err := s.years.GetByID(ctx, academicYearID); err != nil {
		return nil, err
	}

	rows, failed, err := s.parser.Parse(data)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	summary := &dto.ImportSummary{}
	for _, f := range failed {
		summary.Skipped = append(summary.Skipped, dto.SkippedRow{Row: f.Row, Reason: f.Reason})
	}

	for _, row := range rows {
		student := &models.Student{
			NameFR:         row.NameFR,
			NameAR:         row.NameAR,
			Matricule:      row.Matricule,
			NNI:            row.NNI,
			BirthDate:      row.BirthDate,
			BirthPlaceFR:   row.BirthPlaceFR,
			BirthPlaceAR:   row.BirthPlaceAR,
			MentionFR:      row.MentionFR,
			MentionAR:      row.MentionAR,
			ProgramID:      programID,
			AcademicYearID: academicYearID,
		}

		err := s.students.Create(ctx, student)
		switch {
		case err == nil:
			summary.Created++
		case errors.Is(err, apperrors.ErrMatriculeAlreadyExists),
			errors.Is(err, apperrors.ErrNNIAlreadyExists),
			errors.Is(err, apperrors.ErrResourceAlreadyExists):
			summary.Skipped = append(summary.Skipped, dto.SkippedRow{
				Row:       row.Row,
				Matricule: fmt.Sprintf("%d", row.Matricule),
				Reason:    err.Error(),
			})
		default:
			return nil, fmt.Errorf("import stopped at row %d: %w", row.Row, err)
		}
	}

	summary.SkippedCount = len(summary.Skipped)
	logger.Info().
		Int("created", summary.Created).
		Int("skipped", summary.SkippedCount).
		Int64("program_id", programID).
		Msg("Roster import finished")

	return summary, nil
}

// TemplateWorkbook returns the blank roster workbook.
func (s *StudentService) TemplateWorkbook() ([]byte, error) {
	return excel.Template()
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/fingerprint"
	"github.com/isms-esp/diploma-registry/internal/pkg/logger"
	"github.com/isms-esp/diploma-registry/internal/pkg/pdftemplate"
	"github.com/isms-esp/diploma-registry/internal/pkg/validation"
)

// StudentDirectory is the student lookup surface issuance depends on.
type StudentDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	ListByProgramYear(ctx context.Context, programID, academicYearID int64) ([]*models.Student, error)
}

// StructureSource yields the active diploma structure.
type StructureSource interface {
	GetActive(ctx context.Context) (*models.DiplomaStructure, error)
}

// DiplomaStore is the persistence surface issuance depends on.
type DiplomaStore interface {
	ExistsActiveFor(ctx context.Context, studentID int64, awardYear int, diplomaType string) (bool, error)
	NextNumber(ctx context.Context, awardYear int) (int, error)
	CreateIssued(ctx context.Context, diploma *models.Diploma) error
}

// DocumentRenderer builds the diploma PDF.
type DocumentRenderer interface {
	Render(in *pdftemplate.Input) ([]byte, error)
	VerificationURL(verificationID string) string
}

// DocumentSealer applies the institutional signature.
type DocumentSealer interface {
	Seal(data []byte) ([]byte, error)
}

// DocumentStore persists sealed documents.
type DocumentStore interface {
	SaveBytes(name string, data []byte) (string, error)
	Remove(storedPath string) error
}

// IssuanceService orchestrates single and batch diploma issuance:
// render, seal, fingerprint, then persist atomically.
type IssuanceService struct {
	students   StudentDirectory
	structures StructureSource
	diplomas   DiplomaStore
	renderer   DocumentRenderer
	sealer     DocumentSealer
	storage    DocumentStore

	// signingRequired aborts issuance on sealing failure. When false a
	// failed seal produces an unsigned diploma flagged as such.
	signingRequired bool
}

// NewIssuanceService creates an issuance service. sealer may be nil
// only when signing is not required.
func NewIssuanceService(
	students StudentDirectory,
	structures StructureSource,
	diplomas DiplomaStore,
	renderer DocumentRenderer,
	sealer DocumentSealer,
	storage DocumentStore,
	signingRequired bool,
) *IssuanceService {
	return &IssuanceService{
		students:        students,
		structures:      structures,
		diplomas:        diplomas,
		renderer:        renderer,
		sealer:          sealer,
		storage:         storage,
		signingRequired: signingRequired,
	}
}

// Issue generates, seals and registers one diploma for a student.
func (s *IssuanceService) Issue(ctx context.Context, studentID int64, diplomaType string) (*models.Diploma, error) {
	if diplomaType == "" {
		diplomaType = models.DefaultDiplomaType
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Program == nil || student.AcademicYear == nil {
		return nil, fmt.Errorf("student %d is missing program or academic year", studentID)
	}

	awardYear, err := validation.AwardYearFromCode(student.AcademicYear.Code)
	if err != nil {
		return nil, err
	}

	// Cheap guard before any rendering work. The authoritative check
	// runs again inside the persistence transaction.
	exists, err := s.diplomas.ExistsActiveFor(ctx, student.ID, awardYear, diplomaType)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDiplomaAlreadyIssued
	}

	structure, err := s.structures.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	// The number is reserved before rendering so the document prints
	// the same value the record will carry. CreateIssued re-validates
	// it under the numbering lock.
	number, err := s.diplomas.NextNumber(ctx, awardYear)
	if err != nil {
		return nil, err
	}

	verificationID := strings.ReplaceAll(uuid.New().String(), "-", "")

	rendered, err := s.renderer.Render(&pdftemplate.Input{
		Student:        student,
		Program:        student.Program,
		Structure:      structure,
		DiplomaType:    diplomaType,
		DiplomaNumber:  number,
		AwardYear:      awardYear,
		YearCode:       student.AcademicYear.Code,
		VerificationID: verificationID,
		IssuedAt:       time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render diploma: %w", err)
	}

	sealed, signed, err := s.seal(rendered)
	if err != nil {
		return nil, err
	}

	contentHash := fingerprint.Sum(sealed)

	storedPath, err := s.storage.SaveBytes(fmt.Sprintf("%d/%s.pdf", awardYear, verificationID), sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to store diploma document: %w", err)
	}

	diploma := &models.Diploma{
		StudentID:      student.ID,
		Number:         number,
		ProgramID:      student.ProgramID,
		Type:           diplomaType,
		AwardYear:      awardYear,
		FilePath:       storedPath,
		ContentHash:    contentHash,
		VerificationID: verificationID,
		IsSigned:       signed,
	}

	if err := s.diplomas.CreateIssued(ctx, diploma); err != nil {
		// The document was written before the transaction; do not
		// leave an orphan behind.
		if rmErr := s.storage.Remove(storedPath); rmErr != nil {
			logger.Warn().Err(rmErr).Str("path", storedPath).Msg("Failed to clean up document after aborted issuance")
		}
		return nil, err
	}

	diploma.Student = student
	diploma.Program = student.Program

	logger.Info().
		Int64("student_id", student.ID).
		Int("number", diploma.Number).
		Int("award_year", diploma.AwardYear).
		Str("verification_id", diploma.VerificationID).
		Bool("signed", diploma.IsSigned).
		Msg("Diploma issued")

	return diploma, nil
}

// seal signs the rendered document. A sealing failure aborts issuance
// when signing is required; otherwise the unsigned render is kept and
// flagged.
func (s *IssuanceService) seal(rendered []byte) (data []byte, signed bool, err error) {
	if s.sealer == nil {
		if s.signingRequired {
			return nil, false, fmt.Errorf("%w: no signing credentials configured", apperrors.ErrSigningFailed)
		}
		return rendered, false, nil
	}

	sealed, err := s.sealer.Seal(rendered)
	if err != nil {
		if s.signingRequired {
			return nil, false, err
		}
		logger.Warn().Err(err).Msg("Sealing failed, issuing unsigned diploma")
		return rendered, false, nil
	}
	return sealed, true, nil
}

// BatchIssue issues diplomas for every student of a program in an
// academic year. A student's failure never stops the run: holders of
// an existing diploma and students whose issuance fails are both
// counted as skipped, and the batch moves on to the next student.
func (s *IssuanceService) BatchIssue(ctx context.Context, req *dto.BatchIssueRequest) (*dto.BatchIssueResponse, error) {
	diplomaType := req.DiplomaType
	if diplomaType == "" {
		diplomaType = models.DefaultDiplomaType
	}

	students, err := s.students.ListByProgramYear(ctx, req.ProgramID, req.AcademicYearID)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, apperrors.ErrEmptySelection
	}

	resp := &dto.BatchIssueResponse{Total: len(students)}
	for _, student := range students {
		_, err := s.Issue(ctx, student.ID, diplomaType)
		switch {
		case err == nil:
			resp.Generated++
		case errors.Is(err, apperrors.ErrDiplomaAlreadyIssued):
			resp.Skipped++
		default:
			resp.Skipped++
			logger.Warn().Err(err).
				Int64("student_id", student.ID).
				Msg("Batch issuance skipped a student")
		}
	}

	resp.Message = fmt.Sprintf("%d diplômes générés, %d ignorés", resp.Generated, resp.Skipped)
	return resp, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/db"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/dberrors"
)

const diplomaColumns = `d.id, d.student_id, d.diploma_number, d.program_id, d.diploma_type,
	d.award_year, d.file_path, d.content_hash, d.verification_id, d.is_signed,
	d.issued_at, d.is_cancelled, d.cancelled_at, d.cancel_reason`

// DiplomaRepository handles database operations for issued diplomas
type DiplomaRepository struct {
	db *pgxpool.Pool
}

// NewDiplomaRepository creates a new diploma repository
func NewDiplomaRepository(db *pgxpool.Pool) *DiplomaRepository {
	return &DiplomaRepository{db: db}
}

func scanDiploma(row pgx.Row) (*models.Diploma, error) {
	var d models.Diploma
	err := row.Scan(
		&d.ID,
		&d.StudentID,
		&d.Number,
		&d.ProgramID,
		&d.Type,
		&d.AwardYear,
		&d.FilePath,
		&d.ContentHash,
		&d.VerificationID,
		&d.IsSigned,
		&d.IssuedAt,
		&d.IsCancelled,
		&d.CancelledAt,
		&d.CancelReason,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ExistsActiveFor reports whether a non-cancelled diploma of the given
// type already exists for the student in the award year.
func (r *DiplomaRepository) ExistsActiveFor(ctx context.Context, studentID int64, awardYear int, diplomaType string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM diplomas
			WHERE student_id = $1 AND award_year = $2 AND diploma_type = $3
			  AND NOT is_cancelled
		)`,
		studentID, awardYear, diplomaType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking existing diploma: %w", err)
	}
	return exists, nil
}

// NextNumber returns the next sequential diploma number for the award
// year. The result is provisional: it is embedded in the rendered
// document and re-validated under the numbering lock at insert time.
func (r *DiplomaRepository) NextNumber(ctx context.Context, awardYear int) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(diploma_number), 0) + 1
		FROM diplomas WHERE award_year = $1`,
		awardYear).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("error computing diploma number: %w", err)
	}
	return next, nil
}

// CreateIssued persists a freshly sealed diploma carrying its reserved
// number. The whole operation runs in one transaction: an advisory
// lock serializes numbering per award year, the duplicate guard is
// re-checked under the lock, and the reserved number is re-validated
// against the current maximum. A number taken by a concurrent issuance
// fails the insert; the printed document would no longer match the
// record, so the attempt is never silently renumbered. On success the
// diploma's ID and IssuedAt are set.
func (r *DiplomaRepository) CreateIssued(ctx context.Context, diploma *models.Diploma) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		// One issuer at a time per award year.
		if _, err := tx.Exec(ctx,
			`SELECT pg_advisory_xact_lock($1)`, int64(diploma.AwardYear)); err != nil {
			return fmt.Errorf("error acquiring numbering lock: %w", err)
		}

		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM diplomas
				WHERE student_id = $1 AND award_year = $2 AND diploma_type = $3
				  AND NOT is_cancelled
			)`,
			diploma.StudentID, diploma.AwardYear, diploma.Type).Scan(&exists)
		if err != nil {
			return fmt.Errorf("error re-checking existing diploma: %w", err)
		}
		if exists {
			return apperrors.ErrDiplomaAlreadyIssued
		}

		var next int
		err = tx.QueryRow(ctx, `
			SELECT COALESCE(MAX(diploma_number), 0) + 1
			FROM diplomas WHERE award_year = $1`,
			diploma.AwardYear).Scan(&next)
		if err != nil {
			return fmt.Errorf("error re-validating diploma number: %w", err)
		}
		if next != diploma.Number {
			return apperrors.ErrPersistenceConflict
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO diplomas (student_id, diploma_number, program_id, diploma_type,
				award_year, file_path, content_hash, verification_id, is_signed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, issued_at`,
			diploma.StudentID, diploma.Number, diploma.ProgramID, diploma.Type,
			diploma.AwardYear, diploma.FilePath, diploma.ContentHash,
			diploma.VerificationID, diploma.IsSigned,
		).Scan(&diploma.ID, &diploma.IssuedAt)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrPersistenceConflict
			}
			return fmt.Errorf("error inserting diploma: %w", err)
		}

		return nil
	})
	return err
}

// GetByVerificationID retrieves a diploma by its public token with the
// student and program loaded.
func (r *DiplomaRepository) GetByVerificationID(ctx context.Context, verificationID string) (*models.Diploma, error) {
	return r.getOne(ctx, "d.verification_id = $1", verificationID)
}

// GetByHash retrieves a diploma by its sealed-document fingerprint.
func (r *DiplomaRepository) GetByHash(ctx context.Context, contentHash string) (*models.Diploma, error) {
	return r.getOne(ctx, "d.content_hash = $1", contentHash)
}

// GetByID retrieves a diploma by primary key.
func (r *DiplomaRepository) GetByID(ctx context.Context, id int64) (*models.Diploma, error) {
	return r.getOne(ctx, "d.id = $1", id)
}

func (r *DiplomaRepository) getOne(ctx context.Context, where string, arg any) (*models.Diploma, error) {
	query := `SELECT ` + diplomaColumns + ` FROM diplomas d WHERE ` + where

	diploma, err := scanDiploma(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDiplomaNotFound
		}
		return nil, fmt.Errorf("error retrieving diploma: %w", err)
	}

	if err := r.loadRelations(ctx, diploma); err != nil {
		return nil, err
	}
	return diploma, nil
}

// List retrieves diplomas filtered by optional award year, program and
// cancellation state, most recent first, paginated.
func (r *DiplomaRepository) List(ctx context.Context, awardYear *int, programID *int64, cancelled *bool, page, pageSize int) ([]*models.Diploma, int64, error) {
	query := squirrel.Select(
		"d.id", "d.student_id", "d.diploma_number", "d.program_id", "d.diploma_type",
		"d.award_year", "d.file_path", "d.content_hash", "d.verification_id",
		"d.is_signed", "d.issued_at", "d.is_cancelled", "d.cancelled_at",
		"d.cancel_reason", "COUNT(*) OVER()").
		From("diplomas d").
		OrderBy("d.issued_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if awardYear != nil {
		query = query.Where("d.award_year = ?", *awardYear)
	}
	if programID != nil {
		query = query.Where("d.program_id = ?", *programID)
	}
	if cancelled != nil {
		query = query.Where("d.is_cancelled = ?", *cancelled)
	}

	if page > 0 && pageSize > 0 {
		query = query.Limit(uint64(pageSize)).Offset(uint64((page - 1) * pageSize))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing diplomas: %w", err)
	}
	defer rows.Close()

	var diplomas []*models.Diploma
	var total int64
	for rows.Next() {
		var d models.Diploma
		if err := rows.Scan(
			&d.ID, &d.StudentID, &d.Number, &d.ProgramID, &d.Type,
			&d.AwardYear, &d.FilePath, &d.ContentHash, &d.VerificationID,
			&d.IsSigned, &d.IssuedAt, &d.IsCancelled, &d.CancelledAt,
			&d.CancelReason, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning diploma: %w", err)
		}
		diplomas = append(diplomas, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return diplomas, total, nil
}

// UpdateCancellation sets or clears the cancellation state.
func (r *DiplomaRepository) UpdateCancellation(ctx context.Context, id int64, cancelled bool, reason string) error {
	var cmd string
	if cancelled {
		cmd = `
			UPDATE diplomas
			SET is_cancelled = TRUE, cancelled_at = CURRENT_TIMESTAMP, cancel_reason = $2
			WHERE id = $1
		`
	} else {
		cmd = `
			UPDATE diplomas
			SET is_cancelled = FALSE, cancelled_at = NULL, cancel_reason = $2
			WHERE id = $1
		`
		reason = ""
	}

	cmdTag, err := r.db.Exec(ctx, cmd, id, reason)
	if err != nil {
		return fmt.Errorf("error updating cancellation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDiplomaNotFound
	}

	return nil
}

// CountByState returns totals for the dashboard: all diplomas, active
// ones and cancelled ones.
func (r *DiplomaRepository) CountByState(ctx context.Context) (total, active, cancelled int64, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE NOT is_cancelled),
		       COUNT(*) FILTER (WHERE is_cancelled)
		FROM diplomas`).Scan(&total, &active, &cancelled)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("error counting diplomas: %w", err)
	}
	return total, active, cancelled, nil
}

func (r *DiplomaRepository) loadRelations(ctx context.Context, diploma *models.Diploma) error {
	query := `SELECT ` + studentColumns + ` FROM students s WHERE s.id = $1`
	student, err := scanStudent(r.db.QueryRow(ctx, query, diploma.StudentID))
	if err != nil {
		return fmt.Errorf("error loading diploma student: %w", err)
	}
	diploma.Student = student

	var program models.Program
	err = r.db.QueryRow(ctx,
		`SELECT id, code, name_fr, name_ar FROM programs WHERE id = $1`,
		diploma.ProgramID,
	).Scan(&program.ID, &program.Code, &program.NameFR, &program.NameAR)
	if err != nil {
		return fmt.Errorf("error loading diploma program: %w", err)
	}
	diploma.Program = &program

	var year models.AcademicYear
	err = r.db.QueryRow(ctx,
		`SELECT id, code FROM academic_years WHERE id = $1`,
		student.AcademicYearID,
	).Scan(&year.ID, &year.Code)
	if err != nil {
		return fmt.Errorf("error loading diploma academic year: %w", err)
	}
	diploma.Student.AcademicYear = &year

	return nil
}

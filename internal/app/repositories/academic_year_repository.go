package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/dberrors"
)

// AcademicYearRepository handles database operations for academic years
type AcademicYearRepository struct {
	db *pgxpool.Pool
}

// NewAcademicYearRepository creates a new academic year repository
func NewAcademicYearRepository(db *pgxpool.Pool) *AcademicYearRepository {
	return &AcademicYearRepository{db: db}
}

// Create creates a new academic year
func (r *AcademicYearRepository) Create(ctx context.Context, year *models.AcademicYear) error {
	query := `
		INSERT INTO academic_years (code)
		VALUES ($1)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, year.Code).Scan(&year.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAcademicYearAlreadyExists
		}
		return fmt.Errorf("error creating academic year: %w", err)
	}

	return nil
}

// GetByID retrieves an academic year by ID
func (r *AcademicYearRepository) GetByID(ctx context.Context, id int64) (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := r.db.QueryRow(ctx,
		`SELECT id, code FROM academic_years WHERE id = $1`, id,
	).Scan(&year.ID, &year.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAcademicYearNotFound
		}
		return nil, fmt.Errorf("error retrieving academic year: %w", err)
	}

	return &year, nil
}

// GetByCode retrieves an academic year by its code (e.g. "2023-2024")
func (r *AcademicYearRepository) GetByCode(ctx context.Context, code string) (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := r.db.QueryRow(ctx,
		`SELECT id, code FROM academic_years WHERE code = $1`, code,
	).Scan(&year.ID, &year.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAcademicYearNotFound
		}
		return nil, fmt.Errorf("error retrieving academic year: %w", err)
	}

	return &year, nil
}

// GetAll retrieves all academic years, most recent first
func (r *AcademicYearRepository) GetAll(ctx context.Context) ([]*models.AcademicYear, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, code FROM academic_years ORDER BY code DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing academic years: %w", err)
	}
	defer rows.Close()

	var years []*models.AcademicYear
	for rows.Next() {
		var year models.AcademicYear
		if err := rows.Scan(&year.ID, &year.Code); err != nil {
			return nil, err
		}
		years = append(years, &year)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return years, nil
}

// IsReferenced reports whether any student references the year.
func (r *AcademicYearRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	var referenced bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE academic_year_id = $1)`,
		id).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("error checking academic year references: %w", err)
	}
	return referenced, nil
}

// Delete deletes an unreferenced academic year
func (r *AcademicYearRepository) Delete(ctx context.Context, id int64) error {
	referenced, err := r.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return apperrors.ErrAcademicYearReferenced
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM academic_years WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting academic year: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAcademicYearNotFound
	}

	return nil
}

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

// ProgramRepository handles database operations for programs (filières)
type ProgramRepository struct {
	db *pgxpool.Pool
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// Create creates a new program
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	query := `
		INSERT INTO programs (code, name_fr, name_ar)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, program.Code, program.NameFR, program.NameAR).Scan(&program.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating program: %w", err)
	}

	return nil
}

// GetByID retrieves a program by ID
func (r *ProgramRepository) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	query := `
		SELECT id, code, name_fr, name_ar
		FROM programs
		WHERE id = $1
	`

	var program models.Program
	err := r.db.QueryRow(ctx, query, id).Scan(
		&program.ID,
		&program.Code,
		&program.NameFR,
		&program.NameAR,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		return nil, fmt.Errorf("error retrieving program: %w", err)
	}

	return &program, nil
}

// GetAll retrieves all programs ordered by code
func (r *ProgramRepository) GetAll(ctx context.Context) ([]*models.Program, error) {
	query := `
		SELECT id, code, name_fr, name_ar
		FROM programs
		ORDER BY code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing programs: %w", err)
	}
	defer rows.Close()

	var programs []*models.Program
	for rows.Next() {
		var program models.Program
		if err := rows.Scan(
			&program.ID,
			&program.Code,
			&program.NameFR,
			&program.NameAR,
		); err != nil {
			return nil, err
		}
		programs = append(programs, &program)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programs, nil
}

// Update updates an existing program
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	query := `
		UPDATE programs
		SET code = $1, name_fr = $2, name_ar = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		program.Code, program.NameFR, program.NameAR, program.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error updating program: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgramNotFound
	}

	return nil
}

// Delete deletes a program without students
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	var hasStudents bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE program_id = $1)`,
		id).Scan(&hasStudents)
	if err != nil {
		return fmt.Errorf("error checking program students: %w", err)
	}
	if hasStudents {
		return apperrors.ErrConflict
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting program: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgramNotFound
	}

	return nil
}

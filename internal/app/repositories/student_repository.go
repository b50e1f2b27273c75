package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/dberrors"
)

const studentColumns = `s.id, s.name_fr, s.name_ar, s.matricule, COALESCE(s.email, ''), s.nni,
	s.birth_date, s.birth_place_fr, s.birth_place_ar, s.mention_fr, s.mention_ar,
	s.program_id, s.academic_year_id, s.created_at`

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID,
		&student.NameFR,
		&student.NameAR,
		&student.Matricule,
		&student.Email,
		&student.NNI,
		&student.BirthDate,
		&student.BirthPlaceFR,
		&student.BirthPlaceAR,
		&student.MentionFR,
		&student.MentionAR,
		&student.ProgramID,
		&student.AcademicYearID,
		&student.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create creates a new student record
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (name_fr, name_ar, matricule, email, nni, birth_date,
			birth_place_fr, birth_place_ar, mention_fr, mention_ar,
			program_id, academic_year_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		student.NameFR, student.NameAR, student.Matricule, student.Email,
		student.NNI, student.BirthDate, student.BirthPlaceFR, student.BirthPlaceAR,
		student.MentionFR, student.MentionAR, student.ProgramID, student.AcademicYearID,
	).Scan(&student.ID, &student.CreatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "students_matricule_key"):
			return apperrors.ErrMatriculeAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "students_nni_key"):
			return apperrors.ErrNNIAlreadyExists
		case dberrors.IsUniqueViolation(err):
			return apperrors.ErrResourceAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID with program and year loaded
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students s WHERE s.id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	if err := r.loadRelations(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// GetByMatricule retrieves a student by matricule
func (r *StudentRepository) GetByMatricule(ctx context.Context, matricule int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students s WHERE s.matricule = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, matricule))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// List retrieves students filtered by optional program and year, paginated.
func (r *StudentRepository) List(ctx context.Context, programID, academicYearID *int64, page, pageSize int) ([]*models.Student, int64, error) {
	query := squirrel.Select(
		"s.id", "s.name_fr", "s.name_ar", "s.matricule", "COALESCE(s.email, '')",
		"s.nni", "s.birth_date", "s.birth_place_fr", "s.birth_place_ar",
		"s.mention_fr", "s.mention_ar", "s.program_id", "s.academic_year_id",
		"s.created_at", "COUNT(*) OVER()").
		From("students s").
		OrderBy("s.matricule").
		PlaceholderFormat(squirrel.Dollar)

	if programID != nil {
		query = query.Where("s.program_id = ?", *programID)
	}
	if academicYearID != nil {
		query = query.Where("s.academic_year_id = ?", *academicYearID)
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
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	var total int64
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.ID,
			&student.NameFR,
			&student.NameAR,
			&student.Matricule,
			&student.Email,
			&student.NNI,
			&student.BirthDate,
			&student.BirthPlaceFR,
			&student.BirthPlaceAR,
			&student.MentionFR,
			&student.MentionAR,
			&student.ProgramID,
			&student.AcademicYearID,
			&student.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// ListByProgramYear retrieves every student of a program in a given year.
func (r *StudentRepository) ListByProgramYear(ctx context.Context, programID, academicYearID int64) ([]*models.Student, error) {
	students, _, err := r.List(ctx, &programID, &academicYearID, 0, 0)
	return students, err
}

// Count returns the total number of registered students.
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// Update updates a student record
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := squirrel.Update("students").
		Set("name_fr", student.NameFR).
		Set("name_ar", student.NameAR).
		Set("matricule", student.Matricule).
		Set("email", squirrel.Expr("NULLIF(?, '')", student.Email)).
		Set("nni", student.NNI).
		Set("birth_date", student.BirthDate).
		Set("birth_place_fr", student.BirthPlaceFR).
		Set("birth_place_ar", student.BirthPlaceAR).
		Set("mention_fr", student.MentionFR).
		Set("mention_ar", student.MentionAR).
		Set("program_id", student.ProgramID).
		Set("academic_year_id", student.AcademicYearID).
		Where("id = ?", student.ID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "students_matricule_key"):
			return apperrors.ErrMatriculeAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "students_nni_key"):
			return apperrors.ErrNNIAlreadyExists
		case dberrors.IsUniqueViolation(err):
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete deletes a student without issued diplomas
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	var hasDiplomas bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM diplomas WHERE student_id = $1)`,
		id).Scan(&hasDiplomas)
	if err != nil {
		return fmt.Errorf("error checking student diplomas: %w", err)
	}
	if hasDiplomas {
		return apperrors.ErrStudentHasDiplomas
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

func (r *StudentRepository) loadRelations(ctx context.Context, student *models.Student) error {
	var program models.Program
	err := r.db.QueryRow(ctx,
		`SELECT id, code, name_fr, name_ar FROM programs WHERE id = $1`,
		student.ProgramID,
	).Scan(&program.ID, &program.Code, &program.NameFR, &program.NameAR)
	if err != nil {
		return fmt.Errorf("error loading student program: %w", err)
	}
	student.Program = &program

	var year models.AcademicYear
	err = r.db.QueryRow(ctx,
		`SELECT id, code FROM academic_years WHERE id = $1`,
		student.AcademicYearID,
	).Scan(&year.ID, &year.Code)
	if err != nil {
		return fmt.Errorf("error loading student academic year: %w", err)
	}
	student.AcademicYear = &year

	return nil
}

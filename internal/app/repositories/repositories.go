package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository              *UserRepository
	StudentRepository           *StudentRepository
	ProgramRepository           *ProgramRepository
	AcademicYearRepository      *AcademicYearRepository
	StructureRepository         *StructureRepository
	DiplomaRepository           *DiplomaRepository
	VerificationEventRepository *VerificationEventRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:              NewUserRepository(db),
		StudentRepository:           NewStudentRepository(db),
		ProgramRepository:           NewProgramRepository(db),
		AcademicYearRepository:      NewAcademicYearRepository(db),
		StructureRepository:         NewStructureRepository(db),
		DiplomaRepository:           NewDiplomaRepository(db),
		VerificationEventRepository: NewVerificationEventRepository(db),
	}
}

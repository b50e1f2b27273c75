package models

import "time"

// Student is an identity record created by administrative import. It is
// referenced by diplomas and never deleted while diplomas exist.
type Student struct {
	ID           int64     `json:"id" db:"id"`
	NameFR       string    `json:"nameFr" db:"name_fr"`
	NameAR       string    `json:"nameAr" db:"name_ar"`
	Matricule    int64     `json:"matricule" db:"matricule"`
	Email        string    `json:"email,omitempty" db:"email"`
	NNI          string    `json:"nni" db:"nni"`
	BirthDate    time.Time `json:"birthDate" db:"birth_date"`
	BirthPlaceFR string    `json:"birthPlaceFr" db:"birth_place_fr"`
	BirthPlaceAR string    `json:"birthPlaceAr" db:"birth_place_ar"`
	MentionFR    string    `json:"mentionFr" db:"mention_fr"`
	MentionAR    string    `json:"mentionAr" db:"mention_ar"`
	ProgramID    int64     `json:"programId" db:"program_id"`
	AcademicYearID int64   `json:"academicYearId" db:"academic_year_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Program      *Program      `json:"program,omitempty"`
	AcademicYear *AcademicYear `json:"academicYear,omitempty"`
}

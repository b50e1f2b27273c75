package dto

// CreateStudentRequest carries the fields of a new student record.
type CreateStudentRequest struct {
	NameFR         string `json:"nameFr" binding:"required"`
	NameAR         string `json:"nameAr" binding:"required"`
	Matricule      int64  `json:"matricule" binding:"required"`
	Email          string `json:"email"`
	NNI            string `json:"nni" binding:"required"`
	BirthDate      string `json:"birthDate" binding:"required"` // YYYY-MM-DD
	BirthPlaceFR   string `json:"birthPlaceFr" binding:"required"`
	BirthPlaceAR   string `json:"birthPlaceAr" binding:"required"`
	MentionFR      string `json:"mentionFr" binding:"required"`
	MentionAR      string `json:"mentionAr" binding:"required"`
	ProgramID      int64  `json:"programId" binding:"required"`
	AcademicYearID int64  `json:"academicYearId" binding:"required"`
}

// SkippedRow describes one roster row that could not be imported.
type SkippedRow struct {
	Row       int    `json:"row"`
	Matricule string `json:"matricule"`
	Reason    string `json:"reason"`
}

// ImportSummary aggregates a roster import run.
type ImportSummary struct {
	Created      int          `json:"created"`
	SkippedCount int          `json:"skipped_count"`
	Skipped      []SkippedRow `json:"skipped"`
}

package dto

import "time"

// IssueDiplomaResponse is returned after a successful single issuance.
type IssueDiplomaResponse struct {
	Message         string `json:"message"`
	VerificationURL string `json:"verification_url"`
	UUID            string `json:"uuid"`
	Number          int    `json:"number"`
	AwardYear       int    `json:"annee"`
}

// BatchIssueRequest selects the students of one program and academic year.
type BatchIssueRequest struct {
	ProgramID      int64  `json:"program_id" binding:"required"`
	AcademicYearID int64  `json:"academic_year_id" binding:"required"`
	DiplomaType    string `json:"diploma_type"`
}

// BatchIssueResponse aggregates a batch issuance run.
type BatchIssueResponse struct {
	Message   string `json:"message"`
	Total     int    `json:"total"`
	Generated int    `json:"generated"`
	Skipped   int    `json:"skipped"`
}

// CancelDiplomaRequest carries the mandatory revocation reason.
type CancelDiplomaRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PublicDiploma is the public-safe field set exposed by verification.
// It never includes the stored file path or content hash.
type PublicDiploma struct {
	Valid          bool      `json:"valid"`
	Name           string    `json:"nom"`
	Matricule      int64     `json:"matricule"`
	Program        string    `json:"filiere"`
	DiplomaType    string    `json:"type_diplome"`
	AwardYear      int       `json:"annee"`
	IssuedAt       time.Time `json:"date_emission"`
	VerificationID string    `json:"verification_uuid"`
}

// VerificationFailure is the public error payload for failed verifications.
type VerificationFailure struct {
	Valid       bool   `json:"valid"`
	Error       string `json:"error"`
	Reason      string `json:"raison_annulation,omitempty"`
	CancelledAt string `json:"annule_a,omitempty"`
}

// VerificationEventSummary is the admin-facing audit listing entry.
type VerificationEventSummary struct {
	ID         int64         `json:"id"`
	OccurredAt time.Time     `json:"date_verification"`
	SourceIP   string        `json:"adresse_ip"`
	Outcome    string        `json:"statut"`
	Diploma    *EventDiploma `json:"diplome,omitempty"`
	Student    *EventStudent `json:"etudiant,omitempty"`
}

// EventDiploma identifies the diploma a verification event resolved to.
type EventDiploma struct {
	ID        int64 `json:"id"`
	AwardYear int   `json:"annee_obtention"`
}

// EventStudent identifies the holder behind a verification event.
type EventStudent struct {
	Name      string `json:"nom_prenom_fr"`
	Matricule int64  `json:"matricule"`
	Program   string `json:"filiere"`
}

// DashboardStats aggregates registry counters for the admin dashboard.
type DashboardStats struct {
	Students              int64 `json:"students"`
	Diplomas              int64 `json:"diplomas"`
	CancelledDiplomas     int64 `json:"cancelled_diplomas"`
	VerificationSuccesses int64 `json:"verification_successes"`
	VerificationFailures  int64 `json:"verification_failures"`
}

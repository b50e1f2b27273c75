package models

import "time"

// Diploma outcomes for the cancellation state are expressed by the
// IsCancelled flag plus the CancelledAt/CancelReason pair; all three are
// set and cleared together.
type Diploma struct {
	ID             int64      `json:"id" db:"id"`
	StudentID      int64      `json:"studentId" db:"student_id"`
	Number         int        `json:"number" db:"diploma_number"`
	ProgramID      int64      `json:"programId" db:"program_id"`
	Type           string     `json:"type" db:"diploma_type"`
	AwardYear      int        `json:"awardYear" db:"award_year"`
	FilePath       string     `json:"-" db:"file_path"`
	ContentHash    string     `json:"-" db:"content_hash"`
	VerificationID string     `json:"verificationId" db:"verification_id"`
	IsSigned       bool       `json:"isSigned" db:"is_signed"`
	IssuedAt       time.Time  `json:"issuedAt" db:"issued_at"`
	IsCancelled    bool       `json:"isCancelled" db:"is_cancelled"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty" db:"cancelled_at"`
	CancelReason   string     `json:"cancelReason,omitempty" db:"cancel_reason"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
	Program *Program `json:"program,omitempty"`
}

// DefaultDiplomaType is used when an issuance request does not name a type.
const DefaultDiplomaType = "Licence"

package models

import "time"

// Verification outcomes recorded in the audit log.
const (
	VerificationSuccess = "success"
	VerificationFailed  = "failed"
)

// VerificationEvent is an append-only audit record written by every
// verification call. DiplomaID is nil when the lookup failed to resolve.
type VerificationEvent struct {
	ID         int64     `json:"id" db:"id"`
	DiplomaID  *int64    `json:"diplomaId,omitempty" db:"diploma_id"`
	OccurredAt time.Time `json:"occurredAt" db:"occurred_at"`
	SourceIP   string    `json:"sourceIp" db:"source_ip"`
	Outcome    string    `json:"outcome" db:"outcome"`

	// Relations (populated for listings)
	Diploma *Diploma `json:"diploma,omitempty"`
}

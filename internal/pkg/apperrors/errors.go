package apperrors

import (
	"errors"
	"time"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrMatriculeAlreadyExists = errors.New("student with this matricule already exists")
	ErrNNIAlreadyExists       = errors.New("student with this national ID already exists")
	ErrStudentHasDiplomas     = errors.New("student has issued diplomas and cannot be deleted")
)

// Catalog errors
var (
	ErrProgramNotFound           = errors.New("program not found")
	ErrAcademicYearNotFound      = errors.New("academic year not found")
	ErrAcademicYearAlreadyExists = errors.New("academic year with this code already exists")
	ErrAcademicYearReferenced    = errors.New("academic year is referenced by students and cannot be changed")
	ErrInvalidYearCode           = errors.New("academic year code must be two consecutive years (YYYY-YYYY)")
)

// Diploma structure (template configuration) errors
var (
	ErrStructureMissing   = errors.New("no diploma structure is configured")
	ErrStructureAmbiguous = errors.New("more than one active diploma structure exists")
)

// Issuance errors
var (
	ErrDiplomaAlreadyIssued = errors.New("a diploma was already issued for this student, year and type")
	ErrSigningFailed        = errors.New("document signing failed")
	ErrPersistenceConflict  = errors.New("diploma uniqueness violated at persistence time")
	ErrEmptySelection       = errors.New("no students match the requested program and year")
)

// Verification errors
var (
	ErrDiplomaNotFound     = errors.New("diploma not found")
	ErrMalformedToken      = errors.New("malformed verification identifier")
	ErrNoSignature         = errors.New("document carries no signature")
	ErrSignatureInvalid    = errors.New("document signature is invalid")
	ErrSealedFileMissing   = errors.New("sealed document file is missing")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrDiplomaNotCancelled = errors.New("diploma is not cancelled")
)

// ErrDiplomaCancelled is the sentinel all CancelledError values unwrap to.
var ErrDiplomaCancelled = errors.New("diploma has been cancelled")

// CancelledError reports that a diploma exists but has been revoked.
// It carries the revocation reason and timestamp so the verification
// surface can expose them without a second lookup.
type CancelledError struct {
	Reason      string
	CancelledAt time.Time
}

func (e *CancelledError) Error() string {
	return "diploma has been cancelled"
}

func (e *CancelledError) Unwrap() error {
	return ErrDiplomaCancelled
}

// NewCancelledError builds a CancelledError for a revoked diploma.
func NewCancelledError(reason string, at time.Time) *CancelledError {
	return &CancelledError{Reason: reason, CancelledAt: at}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewValidationError creates a validation error with a specific message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches err or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

package models

// AcademicYear is a consecutive two-year code such as "2023-2024".
// The code is unique and immutable once students reference it.
type AcademicYear struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
}

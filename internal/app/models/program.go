package models

// Program (filière) is a course of study, named in both scripts.
type Program struct {
	ID     int64  `json:"id" db:"id"`
	Code   string `json:"code" db:"code"`
	NameFR string `json:"nameFr" db:"name_fr"`
	NameAR string `json:"nameAr" db:"name_ar"`
}

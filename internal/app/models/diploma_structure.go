package models

import "time"

// DiplomaStructure holds every piece of template text and imagery the
// renderer embeds in a diploma: bilingual institutional header, legal
// citations, jury label/date, signatory block and optional images.
// Exactly one active structure is expected per deployment.
type DiplomaStructure struct {
	ID       int64 `json:"id" db:"id"`
	IsActive bool  `json:"isActive" db:"is_active"`

	// Image paths, relative to the configured assets directory.
	BorderImage string `json:"borderImage" db:"border_image"`
	LogoLeft    string `json:"logoLeft" db:"logo_left"`
	LogoRight   string `json:"logoRight" db:"logo_right"`

	RepubliqueFR string `json:"republiqueFr" db:"republique_fr"`
	RepubliqueAR string `json:"republiqueAr" db:"republique_ar"`
	DeviseFR     string `json:"deviseFr" db:"devise_fr"`
	DeviseAR     string `json:"deviseAr" db:"devise_ar"`
	MinistereFR  string `json:"ministereFr" db:"ministere_fr"`
	MinistereAR  string `json:"ministereAr" db:"ministere_ar"`
	GroupeFR     string `json:"groupeFr" db:"groupe_fr"`
	GroupeAR     string `json:"groupeAr" db:"groupe_ar"`
	InstitutFR   string `json:"institutFr" db:"institut_fr"`
	InstitutAR   string `json:"institutAr" db:"institut_ar"`

	TitreFR string `json:"titreFr" db:"titre_fr"`
	TitreAR string `json:"titreAr" db:"titre_ar"`

	CitationsFR string `json:"citationsFr" db:"citations_fr"`
	CitationsAR string `json:"citationsAr" db:"citations_ar"`

	JuryLabelFR string     `json:"juryLabelFr" db:"jury_label_fr"`
	JuryLabelAR string     `json:"juryLabelAr" db:"jury_label_ar"`
	JuryDate    *time.Time `json:"juryDate,omitempty" db:"jury_date"`

	SignLeftTitleFR  string `json:"signLeftTitleFr" db:"sign_left_title_fr"`
	SignLeftTitleAR  string `json:"signLeftTitleAr" db:"sign_left_title_ar"`
	SignLeftName     string `json:"signLeftName" db:"sign_left_name"`
	SignRightTitleFR string `json:"signRightTitleFr" db:"sign_right_title_fr"`
	SignRightTitleAR string `json:"signRightTitleAr" db:"sign_right_title_ar"`
	SignRightName    string `json:"signRightName" db:"sign_right_name"`
}

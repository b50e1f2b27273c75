package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
)

const structureColumns = `id, is_active, border_image, logo_left, logo_right,
	republique_fr, republique_ar, devise_fr, devise_ar,
	ministere_fr, ministere_ar, groupe_fr, groupe_ar, institut_fr, institut_ar,
	titre_fr, titre_ar, citations_fr, citations_ar,
	jury_label_fr, jury_label_ar, jury_date,
	sign_left_title_fr, sign_left_title_ar, sign_left_name,
	sign_right_title_fr, sign_right_title_ar, sign_right_name`

// StructureRepository handles database operations for diploma structures
type StructureRepository struct {
	db *pgxpool.Pool
}

// NewStructureRepository creates a new structure repository
func NewStructureRepository(db *pgxpool.Pool) *StructureRepository {
	return &StructureRepository{db: db}
}

// GetActive returns the single active structure. Zero active structures
// and more than one active structure are both configuration errors.
func (r *StructureRepository) GetActive(ctx context.Context) (*models.DiplomaStructure, error) {
	query := `SELECT ` + structureColumns + ` FROM diploma_structures WHERE is_active`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving active structure: %w", err)
	}
	defer rows.Close()

	var structures []*models.DiplomaStructure
	for rows.Next() {
		st, err := scanStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning structure: %w", err)
		}
		structures = append(structures, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(structures) {
	case 0:
		return nil, apperrors.ErrStructureMissing
	case 1:
		return structures[0], nil
	default:
		return nil, apperrors.ErrStructureAmbiguous
	}
}

// Create inserts a structure, deactivating any previous active one
// when the new structure is active.
func (r *StructureRepository) Create(ctx context.Context, st *models.DiplomaStructure) error {
	if st.IsActive {
		if _, err := r.db.Exec(ctx,
			`UPDATE diploma_structures SET is_active = FALSE WHERE is_active`); err != nil {
			return fmt.Errorf("error deactivating previous structures: %w", err)
		}
	}

	query := `
		INSERT INTO diploma_structures (is_active, border_image, logo_left, logo_right,
			republique_fr, republique_ar, devise_fr, devise_ar,
			ministere_fr, ministere_ar, groupe_fr, groupe_ar, institut_fr, institut_ar,
			titre_fr, titre_ar, citations_fr, citations_ar,
			jury_label_fr, jury_label_ar, jury_date,
			sign_left_title_fr, sign_left_title_ar, sign_left_name,
			sign_right_title_fr, sign_right_title_ar, sign_right_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		st.IsActive, st.BorderImage, st.LogoLeft, st.LogoRight,
		st.RepubliqueFR, st.RepubliqueAR, st.DeviseFR, st.DeviseAR,
		st.MinistereFR, st.MinistereAR, st.GroupeFR, st.GroupeAR, st.InstitutFR, st.InstitutAR,
		st.TitreFR, st.TitreAR, st.CitationsFR, st.CitationsAR,
		st.JuryLabelFR, st.JuryLabelAR, st.JuryDate,
		st.SignLeftTitleFR, st.SignLeftTitleAR, st.SignLeftName,
		st.SignRightTitleFR, st.SignRightTitleAR, st.SignRightName,
	).Scan(&st.ID)
	if err != nil {
		return fmt.Errorf("error creating structure: %w", err)
	}

	return nil
}

// Update replaces the fields of an existing structure
func (r *StructureRepository) Update(ctx context.Context, st *models.DiplomaStructure) error {
	query := `
		UPDATE diploma_structures
		SET is_active = $1, border_image = $2, logo_left = $3, logo_right = $4,
			republique_fr = $5, republique_ar = $6, devise_fr = $7, devise_ar = $8,
			ministere_fr = $9, ministere_ar = $10, groupe_fr = $11, groupe_ar = $12,
			institut_fr = $13, institut_ar = $14,
			titre_fr = $15, titre_ar = $16, citations_fr = $17, citations_ar = $18,
			jury_label_fr = $19, jury_label_ar = $20, jury_date = $21,
			sign_left_title_fr = $22, sign_left_title_ar = $23, sign_left_name = $24,
			sign_right_title_fr = $25, sign_right_title_ar = $26, sign_right_name = $27
		WHERE id = $28
	`

	cmdTag, err := r.db.Exec(ctx, query,
		st.IsActive, st.BorderImage, st.LogoLeft, st.LogoRight,
		st.RepubliqueFR, st.RepubliqueAR, st.DeviseFR, st.DeviseAR,
		st.MinistereFR, st.MinistereAR, st.GroupeFR, st.GroupeAR, st.InstitutFR, st.InstitutAR,
		st.TitreFR, st.TitreAR, st.CitationsFR, st.CitationsAR,
		st.JuryLabelFR, st.JuryLabelAR, st.JuryDate,
		st.SignLeftTitleFR, st.SignLeftTitleAR, st.SignLeftName,
		st.SignRightTitleFR, st.SignRightTitleAR, st.SignRightName,
		st.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating structure: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStructureMissing
	}

	return nil
}

func scanStructure(row interface{ Scan(...any) error }) (*models.DiplomaStructure, error) {
	var st models.DiplomaStructure
	err := row.Scan(
		&st.ID, &st.IsActive, &st.BorderImage, &st.LogoLeft, &st.LogoRight,
		&st.RepubliqueFR, &st.RepubliqueAR, &st.DeviseFR, &st.DeviseAR,
		&st.MinistereFR, &st.MinistereAR, &st.GroupeFR, &st.GroupeAR,
		&st.InstitutFR, &st.InstitutAR,
		&st.TitreFR, &st.TitreAR, &st.CitationsFR, &st.CitationsAR,
		&st.JuryLabelFR, &st.JuryLabelAR, &st.JuryDate,
		&st.SignLeftTitleFR, &st.SignLeftTitleAR, &st.SignLeftName,
		&st.SignRightTitleFR, &st.SignRightTitleAR, &st.SignRightName,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

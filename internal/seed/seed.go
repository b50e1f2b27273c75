package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/repositories"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/auth"
)

const (
	defaultAdminEmail    = "admin@registry.local"
	defaultAdminPassword = "ChangeMe123!"
)

// CreateDefaultData seeds the minimum records a fresh installation
// needs: one admin account and one active diploma structure. Existing
// data is never touched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := repositories.NewRepositories(dbPool)

	if err := seedAdmin(ctx, repos.UserRepository, lgr); err != nil {
		return err
	}
	return seedStructure(ctx, repos.StructureRepository, lgr)
}

func seedAdmin(ctx context.Context, users *repositories.UserRepository, lgr zerolog.Logger) error {
	count, err := users.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
		lgr.Warn().Str("email", email).Msg("Seeding admin with the default password, change it immediately")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     "Administrateur",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("email", email).Msg("Default admin account created")
	return nil
}

func seedStructure(ctx context.Context, structures *repositories.StructureRepository, lgr zerolog.Logger) error {
	_, err := structures.GetActive(ctx)
	if err == nil || errors.Is(err, apperrors.ErrStructureAmbiguous) {
		return nil
	}
	if !errors.Is(err, apperrors.ErrStructureMissing) {
		return err
	}

	st := &models.DiplomaStructure{
		IsActive:     true,
		BorderImage:  "border.png",
		LogoLeft:     "logo_left.png",
		LogoRight:    "logo_right.png",
		RepubliqueFR: "REPUBLIQUE ISLAMIQUE DE MAURITANIE",
		RepubliqueAR: "الجمهورية الإسلامية الموريتانية",
		DeviseFR:     "Honneur-Fraternité-Justice",
		DeviseAR:     "شرف-إخاء-عدل",
		MinistereFR:  "Ministère de l'Enseignement Supérieur et de la Recherche Scientifique",
		MinistereAR:  "وزارة التعليم العالي والبحث العلمي",
		GroupeFR:     "Groupe ISMS",
		GroupeAR:     "مجموعة المعهد العالي",
		InstitutFR:   "Institut Supérieur des Métiers de la Statistique",
		InstitutAR:   "المعهد العالي لمهن الإحصاء",
		TitreFR:      "Diplôme de Licence",
		TitreAR:      "شهادة الإجازة",
		CitationsFR:  "Vu la loi relative à l'organisation de l'enseignement supérieur;\nVu le décret portant création de l'institut;",
		CitationsAR:  "بناء على القانون المتعلق بتنظيم التعليم العالي؛\nوبناء على المرسوم القاضي بإنشاء المعهد؛",
		JuryLabelFR:  "Vu le procès-verbal du jury des examens tenu en date du",
		JuryLabelAR:  "وبناء على محضر لجنة الامتحانات الصادر بتاريخ",

		SignLeftTitleFR:  "Le Directeur des Études",
		SignLeftTitleAR:  "مدير الدراسات",
		SignLeftName:     "",
		SignRightTitleFR: "Le Directeur Général",
		SignRightTitleAR: "المدير العام",
		SignRightName:    "",
	}
	if err := structures.Create(ctx, st); err != nil {
		return err
	}

	lgr.Info().Msg("Default diploma structure created")
	return nil
}

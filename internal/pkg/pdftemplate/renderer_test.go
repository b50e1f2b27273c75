package pdftemplate

import (
	"bytes"
	"testing"
	"time"

	"github.com/isms-esp/diploma-registry/internal/app/models"
)

func sampleInput() *Input {
	juryDate := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	return &Input{
		Student: &models.Student{
			NameFR:       "DIALLO Mamadou",
			NameAR:       "ديالو ممادو",
			Matricule:    21001,
			NNI:          "1234567890",
			BirthDate:    time.Date(2001, 5, 14, 0, 0, 0, 0, time.UTC),
			BirthPlaceFR: "Nouakchott",
			BirthPlaceAR: "نواكشوط",
			MentionFR:    "Bien",
			MentionAR:    "جيد",
		},
		Program: &models.Program{
			Code:   "GI",
			NameFR: "Génie Informatique",
			NameAR: "هندسة المعلوماتية",
		},
		Structure: &models.DiplomaStructure{
			RepubliqueFR: "République Islamique de Mauritanie",
			RepubliqueAR: "الجمهورية الإسلامية الموريتانية",
			DeviseFR:     "Honneur - Fraternité - Justice",
			TitreFR:      "Diplôme de Licence",
			TitreAR:      "شهادة الإجازة",
			JuryLabelFR:  "Vu la délibération du jury en date du",
			JuryDate:     &juryDate,
			SignLeftTitleFR:  "Le Directeur des Études",
			SignLeftName:     "Ahmed OULD MOHAMED",
			SignRightTitleFR: "Le Directeur Général",
			SignRightName:    "محمد ولد أحمد",
		},
		DiplomaType:    "Licence",
		DiplomaNumber:  17,
		AwardYear:      2024,
		YearCode:       "2023-2024",
		VerificationID: "0f8fad5bd9cb469fa165b7e3ac1f0001",
		IssuedAt:       time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	// No fonts or assets on disk: the renderer must still produce a
	// document using its fallbacks.
	r := NewRenderer(t.TempDir(), t.TempDir(), "https://diplomas.example.org")

	data, err := r.Render(sampleInput())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
}

func TestRenderRequiresCompleteInput(t *testing.T) {
	r := NewRenderer(t.TempDir(), t.TempDir(), "https://diplomas.example.org")
	in := sampleInput()
	in.Structure = nil

	if _, err := r.Render(in); err == nil {
		t.Fatal("expected error for missing structure")
	}
}

func TestVerificationURL(t *testing.T) {
	r := NewRenderer("", "", "https://diplomas.example.org/")
	got := r.VerificationURL("0f8fad5bd9cb469fa165b7e3ac1f0001")
	want := "https://diplomas.example.org/verify/0f8fad5bd9cb469fa165b7e3ac1f0001/"
	if got != want {
		t.Errorf("VerificationURL = %q, want %q", got, want)
	}
}

func TestRenderOutputDiffersPerHolder(t *testing.T) {
	r := NewRenderer(t.TempDir(), t.TempDir(), "https://diplomas.example.org")

	first, err := r.Render(sampleInput())
	if err != nil {
		t.Fatalf("first render: %v", err)
	}

	in := sampleInput()
	in.Student.NameFR = "SOW Aissata"
	in.VerificationID = "0f8fad5bd9cb469fa165b7e3ac1f0002"
	second, err := r.Render(in)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}

	if bytes.Equal(first, second) {
		t.Fatal("different holders produced identical documents")
	}
}

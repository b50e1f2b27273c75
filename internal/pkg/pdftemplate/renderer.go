// Package pdftemplate renders the bilingual diploma document: a single
// landscape A4 page with the institutional header in French and Arabic,
// the holder's record, the signatory block and a QR code pointing at
// the public verification page.
package pdftemplate

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/pkg/arabictext"
	"github.com/isms-esp/diploma-registry/internal/pkg/logger"
)

// Renderer produces diploma PDFs from a structure and a student record.
type Renderer struct {
	fontsDir        string
	assetsDir       string
	frontendBaseURL string

	fontFamily   string
	arabicFamily string
}

// NewRenderer creates a Renderer. fontsDir must contain the Amiri TTF
// files for Arabic output; assetsDir holds the images referenced by the
// active structure.
func NewRenderer(fontsDir, assetsDir, frontendBaseURL string) *Renderer {
	return &Renderer{
		fontsDir:        fontsDir,
		assetsDir:       assetsDir,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
	}
}

// Input carries everything a single diploma page needs.
type Input struct {
	Student   *models.Student
	Program   *models.Program
	Structure *models.DiplomaStructure

	DiplomaType    string
	DiplomaNumber  int
	AwardYear      int
	YearCode       string // e.g. "2023-2024"
	VerificationID string
	IssuedAt       time.Time
}

// VerificationURL returns the public link encoded in the QR code.
func (r *Renderer) VerificationURL(verificationID string) string {
	return fmt.Sprintf("%s/verify/%s/", r.frontendBaseURL, verificationID)
}

// Render builds the diploma page and returns the PDF bytes.
func (r *Renderer) Render(in *Input) ([]byte, error) {
	if in.Student == nil || in.Program == nil || in.Structure == nil {
		return nil, fmt.Errorf("renderer input is incomplete")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	r.registerFonts(pdf)
	pdf.AddPage()

	st := in.Structure

	if err := r.drawImage(pdf, st.BorderImage, 0, 0, pageWidth, pageHeight); err != nil {
		logger.Warn().Err(err).Msg("Border image not drawn")
	}
	if err := r.drawImage(pdf, st.LogoLeft, 28, 30, 24, 24); err != nil {
		logger.Warn().Err(err).Msg("Left logo not drawn")
	}
	if err := r.drawImage(pdf, st.LogoRight, pageWidth-52, 30, 24, 24); err != nil {
		logger.Warn().Err(err).Msg("Right logo not drawn")
	}

	r.drawHeader(pdf, st)
	r.drawTitle(pdf, in)
	r.drawBody(pdf, in)
	r.drawDateLine(pdf, in)
	r.drawSignatories(pdf, st)

	if err := r.drawQR(pdf, in.VerificationID); err != nil {
		return nil, fmt.Errorf("failed to draw verification code: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader lays out the republic, motto, ministry and institute lines
// as two mirrored columns, French left and Arabic right.
func (r *Renderer) drawHeader(pdf *fpdf.Fpdf, st *models.DiplomaStructure) {
	const (
		colWidth = 100.0
		top      = 18.0
		lineH    = 5.5
	)

	frLines := []string{st.RepubliqueFR, st.DeviseFR, st.MinistereFR, st.GroupeFR, st.InstitutFR}
	arLines := []string{st.RepubliqueAR, st.DeviseAR, st.MinistereAR, st.GroupeAR, st.InstitutAR}

	pdf.SetTextColor(20, 20, 20)
	y := top
	for _, line := range frLines {
		if line == "" {
			continue
		}
		pdf.SetFont(r.fontFamily, "", 9)
		pdf.SetXY(14, y)
		pdf.CellFormat(colWidth, lineH, line, "", 0, "C", false, 0, "")
		y += lineH
	}

	y = top
	for _, line := range arLines {
		if line == "" {
			continue
		}
		pdf.SetFont(r.arabicFamily, "", 10)
		pdf.SetXY(pageWidth-14-colWidth, y)
		pdf.CellFormat(colWidth, lineH, arabictext.Shape(line), "", 0, "C", false, 0, "")
		y += lineH
	}
}

// drawTitle writes the bilingual diploma title across the page center.
func (r *Renderer) drawTitle(pdf *fpdf.Fpdf, in *Input) {
	st := in.Structure

	pdf.SetTextColor(120, 32, 32)
	pdf.SetFont(r.arabicFamily, "B", 22)
	pdf.SetXY(0, 62)
	pdf.CellFormat(pageWidth, 10, arabictext.Shape(st.TitreAR), "", 0, "C", false, 0, "")

	pdf.SetFont(r.fontFamily, "B", 20)
	pdf.SetXY(0, 74)
	title := st.TitreFR
	if title == "" {
		title = in.DiplomaType
	}
	pdf.CellFormat(pageWidth, 10, title, "", 0, "C", false, 0, "")
	pdf.SetTextColor(20, 20, 20)
}

// drawBody writes the citations and the holder's record in both
// scripts, then the diploma number and award year.
func (r *Renderer) drawBody(pdf *fpdf.Fpdf, in *Input) {
	const (
		colWidth = 125.0
		top      = 90.0
		lineH    = 6.0
	)
	st := in.Structure
	student := in.Student

	frBody := []string{}
	for _, cit := range splitCitations(st.CitationsFR) {
		frBody = append(frBody, cit)
	}
	frBody = append(frBody,
		fmt.Sprintf("Décerne le diplôme de %s à :", in.DiplomaType),
		student.NameFR,
		fmt.Sprintf("Né(e) le %s à %s", student.BirthDate.Format("02/01/2006"), student.BirthPlaceFR),
		fmt.Sprintf("Matricule : %d    NNI : %s", student.Matricule, student.NNI),
		fmt.Sprintf("Filière : %s", in.Program.NameFR),
		fmt.Sprintf("Mention : %s    Année universitaire : %s", student.MentionFR, in.YearCode),
	)

	arBody := []string{}
	for _, cit := range splitCitations(st.CitationsAR) {
		arBody = append(arBody, cit)
	}
	arBody = append(arBody,
		student.NameAR,
		fmt.Sprintf("%s : %s", "مكان الميلاد", student.BirthPlaceAR),
		fmt.Sprintf("%s : %s", "الشعبة", in.Program.NameAR),
		fmt.Sprintf("%s : %s", "الميزة", student.MentionAR),
	)

	y := top
	pdf.SetFont(r.fontFamily, "", 10)
	for _, line := range frBody {
		pdf.SetXY(14, y)
		pdf.CellFormat(colWidth, lineH, line, "", 0, "L", false, 0, "")
		y += lineH
	}

	y = top
	pdf.SetFont(r.arabicFamily, "", 11)
	for _, line := range arBody {
		pdf.SetXY(pageWidth-14-colWidth, y)
		pdf.CellFormat(colWidth, lineH, arabictext.Shape(line), "", 0, "R", false, 0, "")
		y += lineH
	}

	// Jury line and registry number, centered under the two columns.
	juryY := top + float64(maxInt(len(frBody), len(arBody)))*lineH + 4
	if st.JuryLabelFR != "" || st.JuryDate != nil {
		label := st.JuryLabelFR
		if st.JuryDate != nil {
			label = fmt.Sprintf("%s %s", label, st.JuryDate.Format("02/01/2006"))
		}
		pdf.SetFont(r.fontFamily, "", 9)
		pdf.SetXY(0, juryY)
		pdf.CellFormat(pageWidth, 5, strings.TrimSpace(label), "", 0, "C", false, 0, "")
		juryY += 5
	}

	pdf.SetFont(r.fontFamily, "B", 10)
	pdf.SetXY(0, juryY)
	pdf.CellFormat(pageWidth, 6,
		fmt.Sprintf("Diplôme N° %d / %d", in.DiplomaNumber, in.AwardYear),
		"", 0, "C", false, 0, "")
}

// drawDateLine writes the place-and-date line above the signature
// blocks, Arabic over French.
func (r *Renderer) drawDateLine(pdf *fpdf.Fpdf, in *Input) {
	issued := in.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	date := issued.Format("02/01/2006")

	pdf.SetFont(r.arabicFamily, "", 10)
	pdf.SetXY(0, 140)
	pdf.CellFormat(pageWidth, 5, arabictext.Shape("حرر في نواكشوط بتاريخ "+date), "", 0, "C", false, 0, "")

	pdf.SetFont(r.fontFamily, "", 9)
	pdf.SetXY(0, 145)
	pdf.CellFormat(pageWidth, 5, "Vérifié à Nouakchott, le "+date, "", 0, "C", false, 0, "")
}

// drawSignatories writes the two signature blocks near the page bottom.
// Signatory names may be in either script.
func (r *Renderer) drawSignatories(pdf *fpdf.Fpdf, st *models.DiplomaStructure) {
	const (
		blockWidth = 90.0
		top        = 172.0
	)

	drawBlock := func(x float64, titleFR, titleAR, name string) {
		y := top
		if titleFR != "" {
			pdf.SetFont(r.fontFamily, "", 9)
			pdf.SetXY(x, y)
			pdf.CellFormat(blockWidth, 5, titleFR, "", 0, "C", false, 0, "")
			y += 5
		}
		if titleAR != "" {
			pdf.SetFont(r.arabicFamily, "", 10)
			pdf.SetXY(x, y)
			pdf.CellFormat(blockWidth, 5, arabictext.Shape(titleAR), "", 0, "C", false, 0, "")
			y += 5
		}
		if name != "" {
			family := r.fontFamily
			text := name
			if arabictext.HasArabic(name) {
				family = r.arabicFamily
				text = arabictext.Shape(name)
			}
			pdf.SetFont(family, "B", 10)
			pdf.SetXY(x, y+3)
			pdf.CellFormat(blockWidth, 5, text, "", 0, "C", false, 0, "")
		}
	}

	drawBlock(20, st.SignLeftTitleFR, st.SignLeftTitleAR, st.SignLeftName)
	drawBlock(pageWidth-20-blockWidth, st.SignRightTitleFR, st.SignRightTitleAR, st.SignRightName)
}

// drawQR encodes the verification URL and places it bottom center.
func (r *Renderer) drawQR(pdf *fpdf.Fpdf, verificationID string) error {
	url := r.VerificationURL(verificationID)

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to encode QR: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	name := "qr-" + verificationID
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if pdf.Err() {
		return pdf.Error()
	}

	const size = 22.0
	pdf.ImageOptions(name, (pageWidth-size)/2, pageHeight-size-8, size, size, false, opts, 0, "")
	if pdf.Err() {
		return pdf.Error()
	}

	pdf.SetFont(r.fontFamily, "", 6)
	pdf.SetXY(0, pageHeight-7)
	pdf.CellFormat(pageWidth, 4, url, "", 0, "C", false, 0, "")
	return nil
}

func splitCitations(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

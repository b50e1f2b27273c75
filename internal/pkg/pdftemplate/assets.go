package pdftemplate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// page geometry in millimeters, landscape A4
const (
	pageWidth  = 297.0
	pageHeight = 210.0
)

// drawImage places an image file from the assets directory. Missing or
// unreadable assets are reported so the caller can log and continue:
// a diploma without its border is still a diploma.
func (r *Renderer) drawImage(pdf *fpdf.Fpdf, name string, x, y, w, h float64) error {
	if name == "" {
		return nil
	}

	path := filepath.Join(r.assetsDir, filepath.Clean(name))
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("asset %s: %w", name, err)
	}

	opts := fpdf.ImageOptions{ImageType: imageType(path), ReadDpi: true}
	pdf.ImageOptions(path, x, y, w, h, false, opts, 0, "")
	if pdf.Err() {
		err := pdf.Error()
		// Clear the error so one bad asset does not poison the page.
		pdf.ClearError()
		return fmt.Errorf("asset %s: %w", name, err)
	}
	return nil
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "PNG"
	case ".jpg", ".jpeg":
		return "JPG"
	case ".gif":
		return "GIF"
	default:
		return ""
	}
}

// registerFonts loads the Amiri faces needed for Arabic text. When the
// font files are absent the renderer falls back to the built-in core
// fonts, which renders the French text correctly and the Arabic text as
// placeholders.
func (r *Renderer) registerFonts(pdf *fpdf.Fpdf) {
	r.fontFamily = "Helvetica"
	r.arabicFamily = "Helvetica"

	regular := filepath.Join(r.fontsDir, "Amiri-Regular.ttf")
	bold := filepath.Join(r.fontsDir, "Amiri-Bold.ttf")

	if _, err := os.Stat(regular); err != nil {
		return
	}

	pdf.AddUTF8Font("Amiri", "", regular)
	if pdf.Err() {
		pdf.ClearError()
		return
	}
	if _, err := os.Stat(bold); err == nil {
		pdf.AddUTF8Font("Amiri", "B", bold)
		if pdf.Err() {
			pdf.ClearError()
		}
	} else {
		// Reuse the regular face so style "B" never faults.
		pdf.AddUTF8Font("Amiri", "B", regular)
		if pdf.Err() {
			pdf.ClearError()
		}
	}

	r.fontFamily = "Amiri"
	r.arabicFamily = "Amiri"
}

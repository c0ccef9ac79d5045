package report

import (
	"UBASAnthropometry/internal/entity"
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// ErrQCNotPassed is returned for captures that still need a retake; only
// scored analyses get a report.
var ErrQCNotPassed = errors.New("report requested for a capture that failed QC")

type IReport interface {
	Render(a entity.Analysis, summary []entity.ReportEntry) ([]byte, error)
}

type renderer struct {
	title string
}

func New() IReport {
	return &renderer{title: "UBAS-FS 30 Eyelid Assessment"}
}

func (r *renderer) Render(a entity.Analysis, summary []entity.ReportEntry) ([]byte, error) {
	if !a.QC.Passed {
		return nil, ErrQCNotPassed
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(r.title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(r.title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Analysis %s - %s", a.ID, a.CreatedAt.Format("02 Jan 2006 15:04"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range summary {
		pdf.CellFormat(70, 6, tr(row.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, tr(row.Value), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Rubric", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range a.Score.Rubric {
		pdf.CellFormat(70, 6, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%d / %d", item.Points, item.Max), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	if a.Summary != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Narrative", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(a.Summary), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

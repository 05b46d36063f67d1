package report

import (
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	pdfFont       = "Helvetica"
	pdfRowHeight  = 7.0
	pdfTopRecsMax = 5
)

type pdfWriter struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newPDFWriter(title string) *pdfWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	return &pdfWriter{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (p *pdfWriter) heading(text string) {
	p.SetFont(pdfFont, "B", 13)
	p.SetTextColor(0, 0, 0)
	p.CellFormat(0, 10, p.tr(text), "", 1, "L", false, 0, "")
	p.Ln(2)
}

// fit truncates text so it fits a cell of width w.
func (p *pdfWriter) fit(text string, w float64) string {
	text = p.tr(text)
	if p.GetStringWidth(text) <= w-2 {
		return text
	}
	for len(text) > 0 && p.GetStringWidth(text+"...") > w-2 {
		text = text[:len(text)-1]
	}
	return text + "..."
}

// table draws a grid with a grey header row.
func (p *pdfWriter) table(widths []float64, header []string, rows [][]string, align string) {
	p.SetFont(pdfFont, "B", 10)
	p.SetFillColor(128, 128, 128)
	p.SetTextColor(255, 255, 255)
	for i, h := range header {
		p.CellFormat(widths[i], pdfRowHeight, p.fit(h, widths[i]), "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)

	p.SetFont(pdfFont, "", 9)
	p.SetFillColor(245, 245, 220)
	p.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for i, cell := range row {
			p.CellFormat(widths[i], pdfRowHeight, p.fit(cell, widths[i]), "1", 0, align, true, 0, "")
		}
		p.Ln(-1)
	}
	p.Ln(6)
}

// WritePDF writes an A4 report: executive summary, outcome achievement & the top recommendations.
func (g *Generator) WritePDF(ctx context.Context, w io.Writer) error {
	summary, err := g.Summary(ctx)
	if err != nil {
		return err
	}
	achievements, err := g.analytics.OutcomeAchievement(ctx)
	if err != nil {
		return errors.Wrap(err, "computing outcome achievement")
	}
	recs, err := g.Recommendations(ctx)
	if err != nil {
		return err
	}

	p := newPDFWriter(g.conf.Title)

	p.SetFont(pdfFont, "B", 16)
	p.MultiCell(0, 8, p.tr(g.conf.Title), "", "C", false)
	p.Ln(10)

	p.heading("1. Executive Summary")
	p.table([]float64{75, 50}, []string{"Metric", "Value"}, [][]string{
		{"Total Program Outcomes", fmt.Sprint(summary.TotalOutcomes)},
		{"Total Courses", fmt.Sprint(summary.TotalCourses)},
		{"Average Outcome Achievement", fmt.Sprintf("%.2f%%", summary.AvgAchievement)},
		{"Stakeholder Satisfaction", fmt.Sprintf("%.1f/5", summary.StakeholderSatisfaction)},
		{"Accreditation Status", summary.AccreditationStatus},
		{"Report Date", summary.ReportDate},
	}, "C")

	p.heading("2. Program Outcome Achievement")
	if len(achievements) > 0 {
		rows := make([][]string, len(achievements))
		for i, a := range achievements {
			rows[i] = []string{a.Code, a.Description, fmt.Sprintf("%.2f", a.Achievement)}
		}
		p.table([]float64{25, 110, 35}, []string{"Code", "Description", "Achievement (%)"}, rows, "L")
	} else {
		p.SetFont(pdfFont, "I", 10)
		p.CellFormat(0, pdfRowHeight, "No assessment data.", "", 1, "L", false, 0, "")
		p.Ln(6)
	}

	p.heading("3. Improvement Recommendations")
	p.SetFont(pdfFont, "", 10)
	for i, rec := range recs {
		if i == pdfTopRecsMax {
			break
		}
		p.MultiCell(0, 6, p.tr(fmt.Sprintf("%d. %s: %s", i+1, rec.Category, rec.Recommendation)), "", "L", false)
		p.Ln(2)
	}

	if err := p.Output(w); err != nil {
		return errors.Wrap(err, "writing pdf")
	}
	return nil
}

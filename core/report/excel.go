package report

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/obe/core/outcome"
)

// Sheet names, in workbook order.
const (
	SheetSummary         = "Dashboard Summary"
	SheetProgramOutcomes = "Program Outcomes"
	SheetMatrix          = "Outcome Matrix"
	SheetAssessments     = "Assessments"
	SheetIPO             = "IPO Matrix"
	SheetRisk            = "Outcome Risk"
	SheetRecommendations = "Recommendations"
)

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

// Write writes the report in the given format.
func (g *Generator) Write(ctx context.Context, format string, w io.Writer) error {
	switch format {
	case FormatExcel:
		return g.WriteExcel(ctx, w)
	case FormatPDF:
		return g.WritePDF(ctx, w)
	}
	return ErrUnknownFormat
}

func (g *Generator) sheets(ctx context.Context) ([]sheet, error) {
	summary, err := g.Summary(ctx)
	if err != nil {
		return nil, err
	}
	plos, err := g.store.ListProgramOutcomes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing program outcomes")
	}
	matrix, err := g.store.GetOutcomeMatrix(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting outcome matrix")
	}
	recs, err := g.store.GetAssessments(ctx, outcome.AssessmentFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "getting assessments")
	}
	ipo, err := g.store.GetIPOComponents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting ipo components")
	}
	risks, err := g.analytics.AssessRisk(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "assessing risk")
	}

	sheets := []sheet{{
		name: SheetSummary,
		header: []string{
			"Total Outcomes", "Total Courses", "Average Achievement",
			"Stakeholder Satisfaction", "Accreditation Status", "Report Date",
		},
		rows: [][]interface{}{{
			summary.TotalOutcomes, summary.TotalCourses, summary.AvgAchievement,
			summary.StakeholderSatisfaction, summary.AccreditationStatus, summary.ReportDate,
		}},
	}}

	s := sheet{name: SheetProgramOutcomes, header: []string{"Code", "Description", "Category"}}
	for _, po := range plos {
		s.rows = append(s.rows, []interface{}{po.Code, po.Description, po.Category})
	}
	sheets = append(sheets, s)

	s = sheet{name: SheetMatrix, header: []string{
		"Course", "Course Name", "Term", "Course Outcome", "Course Outcome Description",
		"Program Outcome", "Program Outcome Description", "Mastery", "Weight",
	}}
	for _, m := range matrix {
		s.rows = append(s.rows, []interface{}{
			m.CourseCode, m.CourseName, m.CourseTerm, m.CourseOutcomeCode, m.CourseOutcomeDescription,
			m.ProgramOutcomeCode, m.ProgramOutcomeDescription, m.MasteryLevel, m.Weight,
		})
	}
	sheets = append(sheets, s)

	s = sheet{name: SheetAssessments, header: []string{
		"Course", "Course Outcome", "Year", "Term Half", "Kind", "Mean Score", "Participants",
	}}
	for _, r := range recs {
		s.rows = append(s.rows, []interface{}{
			r.CourseCode, r.CourseOutcomeCode, r.Year, r.TermHalf, r.Kind, r.MeanScore, r.Participants,
		})
	}
	sheets = append(sheets, s)

	s = sheet{name: SheetIPO, header: []string{
		"Category", "Component", "Weight", "Target", "Actual", "Status", "Note", "Year", "Term Half",
	}}
	for _, c := range ipo {
		s.rows = append(s.rows, []interface{}{
			c.Category, c.Component, c.Weight, c.Target, c.Actual, c.Status, c.Note, c.Year, c.TermHalf,
		})
	}
	sheets = append(sheets, s)

	if len(risks) > 0 {
		s = sheet{name: SheetRisk, header: []string{
			"Outcome", "Current Score", "Trend", "Volatility", "Participation",
			"Risk Score", "Risk Level", "Recommendation",
		}}
		for _, r := range risks {
			s.rows = append(s.rows, []interface{}{
				r.Outcome, r.CurrentScore, r.Trend, r.Volatility, r.Participation,
				r.RiskScore, r.RiskLevel, r.Recommendation,
			})
		}
		sheets = append(sheets, s)
	}

	s = sheet{name: SheetRecommendations, header: []string{"Category", "Recommendation", "Priority"}}
	for _, r := range recommendations(risks) {
		s.rows = append(s.rows, []interface{}{r.Category, r.Recommendation, r.Priority})
	}
	return append(sheets, s), nil
}

// WriteExcel writes a workbook with one sheet per dataset; the risk sheet is omitted when empty.
func (g *Generator) WriteExcel(ctx context.Context, w io.Writer) error {
	sheets, err := g.sheets(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"808080"}, Pattern: 1},
	})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return errors.Wrapf(err, "renaming sheet to %s", s.name)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return errors.Wrapf(err, "creating sheet %s", s.name)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			return errors.Wrapf(err, "writing sheet %s", s.name)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]interface{}, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(s.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return err
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(s.name, "A", lastCol, 18); err != nil {
		return err
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

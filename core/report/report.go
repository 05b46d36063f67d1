// Package report assembles accreditation reports (spreadsheet & PDF) from the stored data
// and the analytics computed over it.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/analytics"
	"github.com/trezcool/obe/core/outcome"
)

// Formats
const (
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

var ErrUnknownFormat = errors.New("unknown report format, expected xlsx or pdf")

// Priorities
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
)

type (
	Summary struct {
		TotalOutcomes           int     `json:"total_outcomes"`
		TotalCourses            int     `json:"total_courses"`
		AvgAchievement          float64 `json:"avg_achievement"`
		StakeholderSatisfaction float64 `json:"stakeholder_satisfaction"`
		AccreditationStatus     string  `json:"accreditation_status"`
		ReportDate              string  `json:"report_date"`
	}

	Recommendation struct {
		Category       string `json:"category"`
		Recommendation string `json:"recommendation"`
		Priority       string `json:"priority"`
	}

	Generator struct {
		store     outcome.Reader
		analytics *analytics.Service
		conf      core.ReportConfig
		now       func() time.Time
	}
)

var generalRecommendations = []Recommendation{
	{Category: "Curriculum", Recommendation: "Review and update the curriculum based on industry feedback", Priority: PriorityMedium},
	{Category: "Assessment", Recommendation: "Implement project based assessment for practical outcomes", Priority: PriorityHigh},
	{Category: "Infrastructure", Recommendation: "Upgrade laboratories to support emerging technologies", Priority: PriorityMedium},
}

func NewGenerator(store outcome.Reader, svc *analytics.Service, conf core.ReportConfig) *Generator {
	return &Generator{
		store:     store,
		analytics: svc,
		conf:      conf,
		now:       time.Now,
	}
}

// Now is the time reports are stamped with.
func (g *Generator) Now() time.Time {
	return g.now()
}

// ContentType returns the MIME type and file extension of a report format.
func ContentType(format string) (string, error) {
	switch format {
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	case FormatPDF:
		return "application/pdf", nil
	}
	return "", ErrUnknownFormat
}

// Filename returns the download name of a report generated at `t`.
func Filename(format string, t time.Time) string {
	return fmt.Sprintf("obe_report_%s.%s", t.Format("20060102_150405"), format)
}

func (g *Generator) Summary(ctx context.Context) (Summary, error) {
	plos, err := g.store.ListProgramOutcomes(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "listing program outcomes")
	}
	courses, err := g.store.ListCourses(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "listing courses")
	}
	avg, err := g.analytics.MappedAchievement(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "computing achievement")
	}

	return Summary{
		TotalOutcomes:           len(plos),
		TotalCourses:            len(courses),
		AvgAchievement:          avg,
		StakeholderSatisfaction: g.conf.StakeholderSatisfaction,
		AccreditationStatus:     g.conf.AccreditationStatus,
		ReportDate:              g.now().Format("2006-01-02"),
	}, nil
}

// Recommendations lists one high priority entry per high risk outcome followed by the general ones.
func (g *Generator) Recommendations(ctx context.Context) ([]Recommendation, error) {
	risks, err := g.analytics.AssessRisk(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "assessing risk")
	}
	return recommendations(risks), nil
}

func recommendations(risks []analytics.RiskRow) []Recommendation {
	recs := make([]Recommendation, 0, len(generalRecommendations))
	for _, r := range risks {
		if r.RiskLevel != analytics.RiskHigh {
			continue
		}
		recs = append(recs, Recommendation{
			Category:       "Outcome " + r.Outcome,
			Recommendation: r.Recommendation,
			Priority:       PriorityHigh,
		})
	}
	return append(recs, generalRecommendations...)
}

package report

import (
	"bytes"
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/analytics"
)

const emailTemplate = "report"

type emailData struct {
	Format         string
	Date           string
	TotalOutcomes  int
	TotalCourses   int
	AvgAchievement float64
	HighRisk       int
}

// EmailMessage renders the report in `format` and attaches it to a summary message sent to `to`.
func (g *Generator) EmailMessage(ctx context.Context, format string, to []mail.Address) (*core.EmailMessage, error) {
	contentType, err := ContentType(format)
	if err != nil {
		return nil, err
	}
	summary, err := g.Summary(ctx)
	if err != nil {
		return nil, err
	}
	risks, err := g.analytics.AssessRisk(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "assessing risk")
	}

	var buf bytes.Buffer
	if err := g.Write(ctx, format, &buf); err != nil {
		return nil, err
	}

	msg := &core.EmailMessage{
		To:           to,
		Subject:      g.conf.Title,
		TemplateName: emailTemplate,
		TemplateData: emailData{
			Format:         format,
			Date:           summary.ReportDate,
			TotalOutcomes:  summary.TotalOutcomes,
			TotalCourses:   summary.TotalCourses,
			AvgAchievement: summary.AvgAchievement,
			HighRisk:       analytics.RiskDistribution(risks)[analytics.RiskHigh],
		},
	}
	if err := msg.Attach(&buf, Filename(format, g.now()), contentType); err != nil {
		return nil, errors.Wrap(err, "attaching report")
	}
	return msg, nil
}

package report

import (
	"bytes"
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/analytics"
	"github.com/trezcool/obe/core/outcome"
	"github.com/trezcool/obe/tests"
)

var (
	testConf = core.ReportConfig{
		Title:                   "OBE REPORT",
		StakeholderSatisfaction: 4.2,
		AccreditationStatus:     "Accredited B",
	}
	reportDate = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
)

func setup(t *testing.T) (*Generator, outcome.Repository) {
	repo := testutil.NewRepository()
	svc := analytics.NewService(repo, core.AnalyticsConfig{ClusterSeed: 42})
	g := NewGenerator(repo, svc, testConf)
	g.now = func() time.Time { return reportDate }
	return g, repo
}

// seed creates a declining (high risk) outcome P1 and a steady one P2.
func seed(t *testing.T, repo outcome.Repository) {
	testutil.MappedOutcome(t, repo, "P1", "IS101", "CLO1")
	testutil.MappedOutcome(t, repo, "P2", "IS102", "CLO1")
	for i, s := range []float64{82, 78, 74} {
		testutil.CreateAssessment(t, repo, "IS101", "CLO1", 2023+i/2, i%2+1, s, 30)
	}
	for i, s := range []float64{85, 86} {
		testutil.CreateAssessment(t, repo, "IS102", "CLO1", 2023+i/2, i%2+1, s, 30)
	}
	testutil.CreateAssessment(t, repo, "IS999", "CLO1", 2023, 1, 10, 30) // unmapped
}

func TestGenerator_Summary(t *testing.T) {
	ctx := context.Background()
	g, repo := setup(t)

	summary, err := g.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{
		StakeholderSatisfaction: 4.2,
		AccreditationStatus:     "Accredited B",
		ReportDate:              "2024-07-01",
	}, summary)

	seed(t, repo)
	summary, err = g.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalOutcomes)
	assert.Equal(t, 2, summary.TotalCourses)
	assert.Equal(t, 81.0, summary.AvgAchievement) // (82 + 78 + 74 + 85 + 86) / 5
}

func TestGenerator_Recommendations(t *testing.T) {
	ctx := context.Background()
	g, repo := setup(t)

	recs, err := g.Recommendations(ctx)
	require.NoError(t, err)
	assert.Equal(t, generalRecommendations, recs)

	seed(t, repo)
	recs, err = g.Recommendations(ctx)
	require.NoError(t, err)
	require.Len(t, recs, len(generalRecommendations)+1)
	assert.Equal(t, Recommendation{
		Category:       "Outcome P1",
		Recommendation: analytics.RecommendPedagogy + "; " + analytics.RecommendCurriculum,
		Priority:       PriorityHigh,
	}, recs[0])
}

func TestGenerator_WriteExcel(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		seed       bool
		wantSheets []string
	}{
		{
			name: "empty",
			wantSheets: []string{
				SheetSummary, SheetProgramOutcomes, SheetMatrix, SheetAssessments, SheetIPO, SheetRecommendations,
			},
		},
		{
			name: "with risk",
			seed: true,
			wantSheets: []string{
				SheetSummary, SheetProgramOutcomes, SheetMatrix, SheetAssessments, SheetIPO, SheetRisk, SheetRecommendations,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, repo := setup(t)
			if tt.seed {
				seed(t, repo)
			}

			var buf bytes.Buffer
			require.NoError(t, g.Write(ctx, FormatExcel, &buf))

			f, err := excelize.OpenReader(&buf)
			require.NoError(t, err)
			defer f.Close()
			assert.Equal(t, tt.wantSheets, f.GetSheetList())

			rows, err := f.GetRows(SheetSummary)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, "Total Outcomes", rows[0][0])
			assert.Equal(t, "2024-07-01", rows[1][5])

			rows, err = f.GetRows(SheetAssessments)
			require.NoError(t, err)
			if tt.seed {
				assert.Len(t, rows, 7)
			} else {
				assert.Len(t, rows, 1)
			}
		})
	}
}

func TestGenerator_WritePDF(t *testing.T) {
	ctx := context.Background()
	g, repo := setup(t)
	seed(t, repo)

	var buf bytes.Buffer
	require.NoError(t, g.Write(ctx, FormatPDF, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerator_Write_unknownFormat(t *testing.T) {
	g, _ := setup(t)
	var buf bytes.Buffer
	assert.Equal(t, ErrUnknownFormat, g.Write(context.Background(), "docx", &buf))
	assert.Zero(t, buf.Len())
}

func TestContentType(t *testing.T) {
	ct, err := ContentType(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)

	_, err = ContentType("csv")
	assert.Equal(t, ErrUnknownFormat, err)

	assert.Equal(t, "obe_report_20240701_100000.xlsx", Filename(FormatExcel, reportDate))
}

func TestGenerator_EmailMessage(t *testing.T) {
	ctx := context.Background()
	g, repo := setup(t)
	seed(t, repo)

	to := []mail.Address{{Name: "Dean", Address: "dean@obe.test"}}
	msg, err := g.EmailMessage(ctx, FormatPDF, to)
	require.NoError(t, err)
	assert.Equal(t, to, msg.To)
	assert.Equal(t, testConf.Title, msg.Subject)
	assert.Equal(t, emailData{
		Format:         FormatPDF,
		Date:           "2024-07-01",
		TotalOutcomes:  2,
		TotalCourses:   2,
		AvgAchievement: 81,
		HighRisk:       1,
	}, msg.TemplateData)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "obe_report_20240701_100000.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)

	msg.SetAppName("OBE Dashboard")
	require.NoError(t, msg.Render())
	assert.Contains(t, msg.TextContent, "Average outcome achievement: 81.00%")
	assert.Contains(t, msg.TextContent, "High risk outcomes: 1")

	_, err = g.EmailMessage(ctx, "docx", to)
	assert.Equal(t, ErrUnknownFormat, err)
}

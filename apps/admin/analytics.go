package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/trezcool/obe/core/analytics"
)

var riskColors = map[string]*color.Color{
	analytics.RiskHigh:   color.New(color.FgRed, color.Bold),
	analytics.RiskMedium: color.New(color.FgYellow),
	analytics.RiskLow:    color.New(color.FgGreen),
}

func (cli *commandLine) newTable(title string, header []string) *tablewriter.Table {
	color.New(color.FgCyan).Fprintf(cli.out, "\n%s\n", title)
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func (cli *commandLine) risk(ctx context.Context) error {
	rows, err := cli.analyticsSvc.AssessRisk(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cli.out, "no assessment data")
		return nil
	}

	table := cli.newTable("Outcome Risk", []string{
		"Outcome", "Current", "Trend", "Volatility", "Participation", "Score", "Level", "Recommendation",
	})
	for _, r := range rows {
		level := r.RiskLevel
		if c, ok := riskColors[level]; ok {
			level = c.Sprint(level)
		}
		table.Append([]string{
			r.Outcome,
			fmt.Sprintf("%.2f", r.CurrentScore),
			fmt.Sprintf("%+.2f", r.Trend),
			fmt.Sprintf("%.2f", r.Volatility),
			fmt.Sprint(r.Participation),
			fmt.Sprint(r.RiskScore),
			level,
			r.Recommendation,
		})
	}
	table.Render()
	return nil
}

func (cli *commandLine) trend(ctx context.Context, code string, horizon int) error {
	if horizon < 1 || horizon > cli.conf.Analytics.MaxHorizon {
		return analytics.ErrInvalidHorizon
	}

	var results []analytics.TrendResult
	if code != "" {
		res, err := cli.analyticsSvc.PredictTrend(ctx, code, horizon)
		if err != nil {
			return err
		}
		results = append(results, res)
	} else {
		var err error
		if results, err = cli.analyticsSvc.PredictTrends(ctx, horizon); err != nil {
			return err
		}
	}
	if len(results) == 0 {
		fmt.Fprintln(cli.out, "not enough data to forecast any outcome")
		return nil
	}

	table := cli.newTable("Outcome Forecast", []string{"Outcome", "Current", "Year", "Half", "Predicted", "Direction", "R²"})
	for _, res := range results {
		for _, p := range res.Predictions {
			table.Append([]string{
				res.Outcome,
				fmt.Sprintf("%.2f", res.CurrentScore),
				fmt.Sprint(p.Year),
				fmt.Sprint(p.TermHalf),
				fmt.Sprintf("%.2f", p.PredictedScore),
				p.Direction,
				fmt.Sprintf("%.3f", res.Confidence),
			})
		}
	}
	table.Render()
	return nil
}

func (cli *commandLine) clusters(ctx context.Context) error {
	rows, err := cli.analyticsSvc.ClusterCourses(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cli.out, "no assessment data")
		return nil
	}

	table := cli.newTable("Course Clusters", []string{"Course", "Avg Score", "Std Dev", "Assessments", "Avg Students", "Cluster"})
	for _, r := range rows {
		table.Append([]string{
			r.CourseCode,
			fmt.Sprintf("%.2f", r.AvgScore),
			fmt.Sprintf("%.2f", r.ScoreStd),
			fmt.Sprint(r.AssessmentCount),
			fmt.Sprintf("%.1f", r.AvgStudents),
			r.Label,
		})
	}
	table.Render()
	return nil
}

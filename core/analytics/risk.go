package analytics

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/trezcool/obe/core"
)

// MinRiskSamples is the minimum number of aggregated samples for an outcome to be risk assessed.
const MinRiskSamples = 2

// Risk levels.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

var RiskLevels = []string{RiskHigh, RiskMedium, RiskLow}

const (
	RecommendPedagogy    = "Improve teaching and learning methods"
	RecommendCurriculum  = "Review curriculum and assessment"
	RecommendConsistency = "Improve grading consistency"
	NoRecommendation     = "No specific recommendation"
)

type RiskRow struct {
	Outcome        string  `json:"outcome"`
	CurrentScore   float64 `json:"current_score"`
	Trend          float64 `json:"trend"`
	Volatility     float64 `json:"volatility"`
	Participation  int     `json:"participation"`
	RiskScore      int     `json:"risk_score"`
	RiskLevel      string  `json:"risk_level"`
	Recommendation string  `json:"recommendation"`
}

// RiskScore adds up the current score, trend and volatility contributions.
func RiskScore(current, trend, volatility float64) int {
	var score int
	switch {
	case current < 70:
		score += 3
	case current < 75:
		score += 2
	case current < 80:
		score++
	}

	switch {
	case trend < -1:
		score += 3
	case trend < 0:
		score += 2
	case trend < 0.5:
		score++
	}

	switch {
	case volatility > 10:
		score += 2
	case volatility > 5:
		score++
	}
	return score
}

func RiskLevel(score int) string {
	switch {
	case score >= 5:
		return RiskHigh
	case score >= 3:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Recommend returns the "; " separated recommendations triggered by the given metrics.
func Recommend(current, trend, volatility float64) string {
	var recs []string
	if current < 75 {
		recs = append(recs, RecommendPedagogy)
	}
	if trend < 0 {
		recs = append(recs, RecommendCurriculum)
	}
	if volatility > 8 {
		recs = append(recs, RecommendConsistency)
	}
	if len(recs) == 0 {
		return NoRecommendation
	}
	return strings.Join(recs, "; ")
}

// AssessRisk scores every outcome having at least MinRiskSamples samples, in outcome order.
// Volatility is the sample standard deviation (n-1 denominator).
func AssessRisk(samples []OutcomePeriodSample) []RiskRow {
	rows := make([]RiskRow, 0)
	for _, series := range splitByOutcome(samples) {
		if len(series) < MinRiskSamples {
			continue
		}

		periods, scores := axes(series)
		_, trend := fitLine(periods, scores)
		current := scores[len(scores)-1]
		volatility := stat.StdDev(scores, nil)

		participants := make([]float64, len(series))
		for i, s := range series {
			participants[i] = float64(s.Participants)
		}
		participation := math.RoundToEven(stat.Mean(participants, nil))

		score := RiskScore(current, trend, volatility)
		rows = append(rows, RiskRow{
			Outcome:        series[0].Outcome,
			CurrentScore:   core.Round(current, 2),
			Trend:          core.Round(trend, 3),
			Volatility:     core.Round(volatility, 2),
			Participation:  int(participation),
			RiskScore:      score,
			RiskLevel:      RiskLevel(score),
			Recommendation: Recommend(current, trend, volatility),
		})
	}
	return rows
}

// RiskDistribution counts rows per risk level; every level is present.
func RiskDistribution(rows []RiskRow) map[string]int {
	dist := make(map[string]int, len(RiskLevels))
	for _, lvl := range RiskLevels {
		dist[lvl] = 0
	}
	for _, r := range rows {
		dist[r.RiskLevel]++
	}
	return dist
}

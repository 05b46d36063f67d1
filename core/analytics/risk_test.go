package analytics

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskScore_currentBands(t *testing.T) {
	// trend >= 0.5 and volatility <= 5 contribute nothing
	tests := []struct {
		current float64
		want    int
	}{
		{69.99, 3}, {70, 2}, {74.99, 2}, {75, 1}, {79.99, 1}, {80, 0}, {100, 0},
	}
	prev := math.MaxInt
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.current), func(t *testing.T) {
			got := RiskScore(tt.current, 1, 0)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got, prev)
			prev = got
		})
	}
}

func TestRiskScore_trendBands(t *testing.T) {
	tests := []struct {
		trend float64
		want  int
	}{
		{-5, 3}, {-1.01, 3}, {-1, 2}, {-0.01, 2}, {0, 1}, {0.49, 1}, {0.5, 0}, {3, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.trend), func(t *testing.T) {
			assert.Equal(t, tt.want, RiskScore(90, tt.trend, 0))
		})
	}
}

func TestRiskScore_volatilityBands(t *testing.T) {
	tests := []struct {
		volatility float64
		want       int
	}{
		{0, 0}, {5, 0}, {5.01, 1}, {10, 1}, {10.01, 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.volatility), func(t *testing.T) {
			assert.Equal(t, tt.want, RiskScore(90, 1, tt.volatility))
		})
	}
}

func TestRiskLevel(t *testing.T) {
	levels := map[int]string{0: RiskLow, 2: RiskLow, 3: RiskMedium, 4: RiskMedium, 5: RiskHigh, 8: RiskHigh}
	for score, want := range levels {
		assert.Equal(t, want, RiskLevel(score), "score=%d", score)
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name                       string
		current, trend, volatility float64
		want                       string
	}{
		{"none", 80, 1, 2, NoRecommendation},
		{"boundaries", 75, 0, 8, NoRecommendation},
		{"pedagogy", 74.9, 0, 0, RecommendPedagogy},
		{"all", 60, -2, 9, RecommendPedagogy + "; " + RecommendCurriculum + "; " + RecommendConsistency},
		{"curriculum & consistency", 90, -0.1, 12, RecommendCurriculum + "; " + RecommendConsistency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommend(tt.current, tt.trend, tt.volatility))
		})
	}
}

func TestAssessRisk(t *testing.T) {
	t.Run("declining outcome", func(t *testing.T) {
		// slope over (2023, 82), (2023.5, 78), (2024, 74) is -8; sample std-dev is 4
		rows := AssessRisk(samplesOf("P1", 82, 78, 74))
		require.Len(t, rows, 1)
		assert.Equal(t, RiskRow{
			Outcome:        "P1",
			CurrentScore:   74,
			Trend:          -8,
			Volatility:     4,
			Participation:  30,
			RiskScore:      5, // current<75 (+2), trend<-1 (+3), volatility<=5 (+0)
			RiskLevel:      RiskHigh,
			Recommendation: RecommendPedagogy + "; " + RecommendCurriculum,
		}, rows[0])
	})

	t.Run("skips outcomes with a single sample", func(t *testing.T) {
		samples := append(samplesOf("PLO1", 90), samplesOf("PLO2", 90, 91)...)
		samples = append(samples, samplesOf("PLO3", 70)...)
		rows := AssessRisk(samples)
		require.Len(t, rows, 1)
		assert.Equal(t, "PLO2", rows[0].Outcome)
	})

	t.Run("volatile outcome", func(t *testing.T) {
		// scores 60 & 90: slope 60, std-dev 21.21
		rows := AssessRisk(samplesOf("PLO7", 60, 90))
		require.Len(t, rows, 1)
		assert.Equal(t, 60.0, rows[0].Trend)
		assert.Equal(t, 21.21, rows[0].Volatility)
		assert.Equal(t, 2, rows[0].RiskScore)
		assert.Equal(t, RiskLow, rows[0].RiskLevel)
		assert.Equal(t, RecommendConsistency, rows[0].Recommendation)
	})

	t.Run("participation rounds half to even", func(t *testing.T) {
		series := samplesOf("PLO1", 80, 80)
		series[0].Participants = 30
		series[1].Participants = 31
		rows := AssessRisk(series)
		require.Len(t, rows, 1)
		assert.Equal(t, 30, rows[0].Participation)
	})

	t.Run("empty", func(t *testing.T) {
		rows := AssessRisk(nil)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}

func TestService_AssessRisk(t *testing.T) {
	svc, repo := setup(t)
	seedSeries(t, repo, "P1", "IS101", 82, 78, 74)
	seedSeries(t, repo, "P0", "IS100", 85)

	rows, err := svc.AssessRisk(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "P1", rows[0].Outcome)
	assert.Equal(t, RiskHigh, rows[0].RiskLevel)

	dist := RiskDistribution(rows)
	assert.Equal(t, map[string]int{RiskHigh: 1, RiskMedium: 0, RiskLow: 0}, dist)
}

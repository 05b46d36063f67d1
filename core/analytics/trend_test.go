package analytics

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplesOf(code string, scores ...float64) []OutcomePeriodSample {
	series := make([]OutcomePeriodSample, len(scores))
	for i, s := range scores {
		year, half := 2023+i/2, i%2+1
		series[i] = OutcomePeriodSample{
			Outcome:      code,
			Year:         year,
			TermHalf:     half,
			Period:       Period(year, half),
			MeanScore:    s,
			Participants: 30,
		}
	}
	return series
}

func TestPredictTrend(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		horizon   int
		wantPreds []ForecastPoint
		wantConf  float64
	}{
		{
			name:    "declining",
			scores:  []float64{82, 78, 74},
			horizon: 2,
			wantPreds: []ForecastPoint{
				{Period: 2024.5, Year: 2024, TermHalf: 2, PredictedScore: 70, Direction: DirectionDown},
				{Period: 2025, Year: 2025, TermHalf: 1, PredictedScore: 66, Direction: DirectionDown},
			},
			wantConf: 1,
		},
		{
			name:    "clamped to 100",
			scores:  []float64{70, 80, 90},
			horizon: 3,
			wantPreds: []ForecastPoint{
				{Period: 2024.5, Year: 2024, TermHalf: 2, PredictedScore: 100, Direction: DirectionUp},
				{Period: 2025, Year: 2025, TermHalf: 1, PredictedScore: 100, Direction: DirectionUp},
				{Period: 2025.5, Year: 2025, TermHalf: 2, PredictedScore: 100, Direction: DirectionUp},
			},
			wantConf: 1,
		},
		{
			name:    "clamped to 0",
			scores:  []float64{40, 20, 2},
			horizon: 1,
			wantPreds: []ForecastPoint{
				{Period: 2024.5, Year: 2024, TermHalf: 2, PredictedScore: 0, Direction: DirectionDown},
			},
			wantConf: 0.999,
		},
		{
			name:    "constant",
			scores:  []float64{80, 80, 80, 80},
			horizon: 1,
			wantPreds: []ForecastPoint{
				{Period: 2025, Year: 2025, TermHalf: 1, PredictedScore: 80, Direction: DirectionDown},
			},
			wantConf: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := PredictTrend("PLO1", samplesOf("PLO1", tt.scores...), tt.horizon)
			require.NoError(t, err)
			assert.Equal(t, "PLO1", res.Outcome)
			assert.Equal(t, tt.scores[len(tt.scores)-1], res.CurrentScore)
			assert.Equal(t, tt.wantConf, res.Confidence)
			assert.Equal(t, tt.wantPreds, res.Predictions)
		})
	}
}

func TestPredictTrend_invariants(t *testing.T) {
	series := samplesOf("PLO4", 61, 90, 55, 97, 40, 72)
	last := series[len(series)-1].Period

	for horizon := 1; horizon <= 6; horizon++ {
		res, err := PredictTrend("PLO4", series, horizon)
		require.NoError(t, err)
		require.Len(t, res.Predictions, horizon)
		for i, p := range res.Predictions {
			assert.Equal(t, last+0.5*float64(i+1), p.Period)
			assert.GreaterOrEqual(t, p.PredictedScore, 0.0)
			assert.LessOrEqual(t, p.PredictedScore, 100.0)
		}
		assert.LessOrEqual(t, res.Confidence, 1.0)
	}
}

func TestPredictTrend_errors(t *testing.T) {
	_, err := PredictTrend("PLO1", samplesOf("PLO1", 80, 82, 84), 0)
	assert.Equal(t, ErrInvalidHorizon, err)

	for n := 0; n < MinTrendSamples; n++ {
		scores := make([]float64, n)
		for i := range scores {
			scores[i] = 75
		}
		_, err := PredictTrend("PLO1", samplesOf("PLO1", scores...), 2)

		var idErr *InsufficientDataError
		require.True(t, errors.As(err, &idErr), "samples=%d", n)
		assert.Equal(t, &InsufficientDataError{Outcome: "PLO1", Samples: n, Required: MinTrendSamples}, idErr)
	}
}

func TestService_PredictTrend(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)
	seedSeries(t, repo, "P1", "IS101", 82, 78, 74)
	seedSeries(t, repo, "P2", "IS102", 70, 72)

	res, err := svc.PredictTrend(ctx, " p1 ", 2)
	require.NoError(t, err)
	assert.Equal(t, "P1", res.Outcome)
	assert.Equal(t, 74.0, res.CurrentScore)
	assert.Len(t, res.Predictions, 2)

	_, err = svc.PredictTrend(ctx, "P2", 2)
	var idErr *InsufficientDataError
	assert.True(t, errors.As(err, &idErr))

	_, err = svc.PredictTrend(ctx, "UNKNOWN", 2)
	assert.True(t, errors.As(err, &idErr))
	assert.Equal(t, 0, idErr.Samples)

	results, err := svc.PredictTrends(ctx, 2)
	require.NoError(t, err)
	if assert.Len(t, results, 1) {
		assert.Equal(t, "P1", results[0].Outcome)
	}
}

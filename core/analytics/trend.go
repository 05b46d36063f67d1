package analytics

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/trezcool/obe/core"
)

// MinTrendSamples is the minimum number of aggregated samples needed to forecast an outcome.
const MinTrendSamples = 3

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

var ErrInvalidHorizon = errors.New("horizon must be a positive number of half-terms")

// InsufficientDataError is returned when an outcome has too few samples to be forecast.
type InsufficientDataError struct {
	Outcome  string
	Samples  int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough data to predict %s: %d samples, %d required", e.Outcome, e.Samples, e.Required)
}

type (
	ForecastPoint struct {
		Period         float64 `json:"period"`
		Year           int     `json:"year"`
		TermHalf       int     `json:"term_half"`
		PredictedScore float64 `json:"predicted_score"`
		Direction      string  `json:"direction"`
	}

	TrendResult struct {
		Outcome      string          `json:"outcome"`
		CurrentScore float64         `json:"current_score"`
		Predictions  []ForecastPoint `json:"predictions"`
		// Confidence is the in-sample R² of the fit; it may be negative.
		Confidence float64 `json:"confidence"`
	}
)

// fitLine returns the least squares intercept & slope of y over x.
func fitLine(x, y []float64) (alpha, beta float64) {
	return stat.LinearRegression(x, y, nil, false)
}

// rSquared is the coefficient of determination of the fit; a constant y is perfectly fitted.
func rSquared(x, y []float64, alpha, beta float64) float64 {
	if floats.Max(y) == floats.Min(y) {
		return 1
	}
	return stat.RSquared(x, y, nil, alpha, beta)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// PredictTrend fits an ordinary least squares line on `series` (one outcome, ascending period)
// and projects it `horizon` half-terms past the last sample.
func PredictTrend(code string, series []OutcomePeriodSample, horizon int) (TrendResult, error) {
	if horizon < 1 {
		return TrendResult{}, ErrInvalidHorizon
	}
	if len(series) < MinTrendSamples {
		return TrendResult{}, &InsufficientDataError{Outcome: code, Samples: len(series), Required: MinTrendSamples}
	}

	periods, scores := axes(series)
	alpha, beta := fitLine(periods, scores)
	current := scores[len(scores)-1]
	last := periods[len(periods)-1]

	res := TrendResult{
		Outcome:      code,
		CurrentScore: current,
		Predictions:  make([]ForecastPoint, horizon),
		Confidence:   core.Round(rSquared(periods, scores, alpha, beta), 3),
	}
	for i := 0; i < horizon; i++ {
		period := last + 0.5*float64(i+1)
		predicted := clamp(alpha+beta*period, 0, 100)
		year, frac := math.Modf(period)
		termHalf := 1
		if frac >= 0.5 {
			termHalf = 2
		}
		direction := DirectionDown
		if predicted > current {
			direction = DirectionUp
		}
		res.Predictions[i] = ForecastPoint{
			Period:         period,
			Year:           int(year),
			TermHalf:       termHalf,
			PredictedScore: core.Round(predicted, 2),
			Direction:      direction,
		}
	}
	return res, nil
}

// Package analytics turns raw assessment records into per-outcome time series,
// trend forecasts, risk scores and course performance clusters.
package analytics

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/outcome"
)

type Service struct {
	store outcome.Reader
	conf  core.AnalyticsConfig
}

func NewService(store outcome.Reader, conf core.AnalyticsConfig) *Service {
	return &Service{store: store, conf: conf}
}

// snapshot reads every assessment record along with the outcome matrix.
func (svc *Service) snapshot(ctx context.Context) ([]outcome.AssessmentRecord, []outcome.MappingRow, error) {
	recs, err := svc.store.GetAssessments(ctx, outcome.AssessmentFilter{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "getting assessments")
	}
	if len(recs) == 0 {
		return nil, nil, nil
	}
	matrix, err := svc.store.GetOutcomeMatrix(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "getting outcome matrix")
	}
	return recs, matrix, nil
}

func (svc *Service) AggregateOutcomeSeries(ctx context.Context) ([]OutcomePeriodSample, error) {
	recs, matrix, err := svc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateSeries(recs, matrix), nil
}

// PredictTrend forecasts `horizon` half-terms of the given program outcome.
func (svc *Service) PredictTrend(ctx context.Context, code string, horizon int) (TrendResult, error) {
	if horizon < 1 {
		return TrendResult{}, ErrInvalidHorizon
	}
	samples, err := svc.AggregateOutcomeSeries(ctx)
	if err != nil {
		return TrendResult{}, err
	}
	code = core.CleanCode(code)
	return PredictTrend(code, seriesOf(samples, code), horizon)
}

// PredictTrends forecasts every outcome, skipping those without enough samples.
func (svc *Service) PredictTrends(ctx context.Context, horizon int) ([]TrendResult, error) {
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	samples, err := svc.AggregateOutcomeSeries(ctx)
	if err != nil {
		return nil, err
	}

	var results []TrendResult
	for _, series := range splitByOutcome(samples) {
		res, err := PredictTrend(series[0].Outcome, series, horizon)
		if err != nil {
			var idErr *InsufficientDataError
			if errors.As(err, &idErr) {
				continue
			}
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (svc *Service) AssessRisk(ctx context.Context) ([]RiskRow, error) {
	samples, err := svc.AggregateOutcomeSeries(ctx)
	if err != nil {
		return nil, err
	}
	return AssessRisk(samples), nil
}

// ClusterCourses returns nil when there is no assessment data.
func (svc *Service) ClusterCourses(ctx context.Context) ([]ClusterRow, error) {
	recs, err := svc.store.GetAssessments(ctx, outcome.AssessmentFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "getting assessments")
	}
	return ClusterCourses(recs, svc.conf.ClusterSeed), nil
}

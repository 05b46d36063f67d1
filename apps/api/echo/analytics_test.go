package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/obe/core/analytics"
	"github.com/trezcool/obe/core/outcome"
	"github.com/trezcool/obe/tests"
)

// seedDeclining creates P1 (82, 78, 74) and P2 with two samples only.
func seedDeclining(t *testing.T, repo outcome.Repository) {
	testutil.MappedOutcome(t, repo, "P1", "IS101", "CLO1")
	testutil.MappedOutcome(t, repo, "P2", "IS102", "CLO1")
	for i, s := range []float64{82, 78, 74} {
		testutil.CreateAssessment(t, repo, "IS101", "CLO1", 2023+i/2, i%2+1, s, 30)
	}
	for i, s := range []float64{85, 86} {
		testutil.CreateAssessment(t, repo, "IS102", "CLO1", 2023+i/2, i%2+1, s, 30)
	}
}

func Test_analyticsApi_empty(t *testing.T) {
	app, _ := setup(t)

	tests := []httpTest{
		{name: "series", path: "/v1/analytics/series", wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "risk", path: "/v1/analytics/risk", wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "clusters", path: "/v1/analytics/clusters", wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "trends", path: "/v1/analytics/trends", wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "achievement", path: "/v1/analytics/achievement", wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{
			name: "trend", path: "/v1/analytics/trend/P1",
			wantCode: http.StatusUnprocessableEntity,
			wantData: marshalObj(t, httpErr{Error: "not enough data to predict P1: 0 samples, 3 required"}),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_analyticsApi_trend(t *testing.T) {
	app, repo := setup(t)
	seedDeclining(t, repo)

	tests := []httpTest{
		{
			name: "declining", path: "/v1/analytics/trend/p1",
			wantCode: http.StatusOK,
			wantData: marshalObj(t, analytics.TrendResult{
				Outcome:      "P1",
				CurrentScore: 74,
				Predictions: []analytics.ForecastPoint{
					{Period: 2024.5, Year: 2024, TermHalf: 2, PredictedScore: 70, Direction: analytics.DirectionDown},
					{Period: 2025, Year: 2025, TermHalf: 1, PredictedScore: 66, Direction: analytics.DirectionDown},
				},
				Confidence: 1,
			}),
		},
		{
			name: "two samples", path: "/v1/analytics/trend/P2",
			wantCode: http.StatusUnprocessableEntity,
			wantData: marshalObj(t, httpErr{Error: "not enough data to predict P2: 2 samples, 3 required"}),
		},
		{
			name: "horizon above max", path: "/v1/analytics/trend/P1?horizon=5",
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: analytics.ErrInvalidHorizon.Error()}),
		},
		{
			name: "zero horizon", path: "/v1/analytics/trend/P1?horizon=0",
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: analytics.ErrInvalidHorizon.Error()}),
		},
		{
			name: "horizon not a number", path: "/v1/analytics/trend/P1?horizon=x",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"horizon": "must be an integer"}`),
		},
	}
	runHTTPTests(t, app, tests)

	req, rec := newRequest(http.MethodGet, "/v1/analytics/trends?horizon=1")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []analytics.TrendResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1, "P2 is skipped")
	assert.Equal(t, "P1", results[0].Outcome)
	assert.Len(t, results[0].Predictions, 1)
}

func Test_analyticsApi_risk(t *testing.T) {
	app, repo := setup(t)
	seedDeclining(t, repo)

	req, rec := newRequest(http.MethodGet, "/v1/analytics/risk")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []analytics.RiskRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, analytics.RiskRow{
		Outcome:        "P1",
		CurrentScore:   74,
		Trend:          -8,
		Volatility:     4,
		Participation:  30,
		RiskScore:      5,
		RiskLevel:      analytics.RiskHigh,
		Recommendation: analytics.RecommendPedagogy + "; " + analytics.RecommendCurriculum,
	}, rows[0])
	assert.Equal(t, "P2", rows[1].Outcome)

	req, rec = newRequest(http.MethodGet, "/v1/dashboard")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var dash analytics.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, 2, dash.TotalOutcomes)
	assert.Equal(t, 5, dash.TotalAssessments)
	assert.Equal(t, 1, dash.RiskDistribution[analytics.RiskHigh])
}

func Test_analyticsApi_clusters(t *testing.T) {
	app, repo := setup(t)
	seedDeclining(t, repo)

	req, rec := newRequest(http.MethodGet, "/v1/analytics/clusters")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []analytics.ClusterRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	for _, r := range rows {
		if r.CourseCode == "IS102" {
			assert.Equal(t, 0, r.Cluster, "best mean is cluster 0")
			assert.Equal(t, analytics.LabelHigh, r.Label)
		}
	}
}

func Test_analyticsApi_readiness(t *testing.T) {
	app, _ := setup(t)

	tests := []httpTest{
		{
			name: "no scores", method: http.MethodPost, path: "/v1/analytics/readiness",
			body:     []byte(`{"scores": []}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"scores": "scores must contain at least 1 item"}`),
		},
		{
			name: "score out of range", method: http.MethodPost, path: "/v1/analytics/readiness",
			body:     []byte(`{"scores": [{"outcome": "PLO1", "score": 101}]}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"score": "score must be 100 or less"}`),
		},
		{
			name: "ready", method: http.MethodPost, path: "/v1/analytics/readiness",
			body:     []byte(`{"scores": [{"outcome": "plo8", "score": 60}, {"outcome": "PLO1", "score": 80}]}`),
			wantCode: http.StatusOK,
			wantData: marshalObj(t, analytics.Readiness{
				Overall: 100,
				Status:  analytics.ReadinessReady,
				Outcomes: []analytics.OutcomeReadiness{
					{Outcome: "PLO8", Average: 60, Weight: 1.5, Readiness: 100}, // 112.5 capped
					{Outcome: "PLO1", Average: 80, Weight: 1, Readiness: 100},
				},
			}),
		},
		{
			name: "needs support", method: http.MethodPost, path: "/v1/analytics/readiness",
			body:     []byte(`{"scores": [{"outcome": "PLO1", "score": 40}]}`),
			wantCode: http.StatusOK,
			wantData: marshalObj(t, analytics.Readiness{
				Overall:  50,
				Status:   analytics.ReadinessNeedsSupport,
				Outcomes: []analytics.OutcomeReadiness{{Outcome: "PLO1", Average: 40, Weight: 1, Readiness: 50}},
			}),
		},
	}
	runHTTPTests(t, app, tests)
}

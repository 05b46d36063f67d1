package analytics

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/obe/core/outcome"
)

func records(course string, scores ...float64) []outcome.AssessmentRecord {
	recs := make([]outcome.AssessmentRecord, len(scores))
	for i, s := range scores {
		recs[i] = outcome.AssessmentRecord{
			CourseCode:        course,
			CourseOutcomeCode: "CLO1",
			Year:              2024,
			TermHalf:          1,
			MeanScore:         s,
			Participants:      30,
		}
	}
	return recs
}

func concat(parts ...[]outcome.AssessmentRecord) []outcome.AssessmentRecord {
	var out []outcome.AssessmentRecord
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func labelsByCourse(rows []ClusterRow) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.CourseCode] = r.Label
	}
	return out
}

func TestClusterCourses(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, ClusterCourses(nil, 42))
	})

	t.Run("three tiers", func(t *testing.T) {
		recs := concat(
			records("LOW1", 50, 52), records("HIGH1", 95, 93), records("MID1", 75, 77),
			records("HIGH2", 94, 92), records("LOW2", 51, 49), records("MID2", 76, 74),
		)
		rows := ClusterCourses(recs, 42)
		require.Len(t, rows, 6)

		codes := make([]string, len(rows))
		for i, r := range rows {
			codes[i] = r.CourseCode
		}
		assert.Equal(t, []string{"HIGH1", "HIGH2", "LOW1", "LOW2", "MID1", "MID2"}, codes)

		assert.Equal(t, map[string]string{
			"HIGH1": LabelHigh, "HIGH2": LabelHigh,
			"MID1": LabelMedium, "MID2": LabelMedium,
			"LOW1": LabelLow, "LOW2": LabelLow,
		}, labelsByCourse(rows))

		for _, r := range rows {
			switch r.Label {
			case LabelHigh:
				assert.Equal(t, 0, r.Cluster)
			case LabelMedium:
				assert.Equal(t, 1, r.Cluster)
			case LabelLow:
				assert.Equal(t, 2, r.Cluster)
			}
			assert.Equal(t, 2, r.AssessmentCount)
			assert.Equal(t, 30.0, r.AvgStudents)
		}
		assert.Equal(t, rows, ClusterCourses(recs, 42), "clustering must be reproducible")
	})

	t.Run("fewer courses than tiers", func(t *testing.T) {
		rows := ClusterCourses(concat(records("A", 60, 62), records("B", 90, 88)), 42)
		assert.Equal(t, map[string]string{"A": LabelLow, "B": LabelHigh}, labelsByCourse(rows))

		rows = ClusterCourses(records("A", 60, 62), 42)
		require.Len(t, rows, 1)
		assert.Equal(t, 0, rows[0].Cluster)
		assert.Equal(t, LabelMedium, rows[0].Label)
	})

	t.Run("single record std is imputed", func(t *testing.T) {
		rows := ClusterCourses(concat(records("A", 60, 70), records("B", 80), records("C", 90, 94)), 42)
		require.Len(t, rows, 3)
		// std(A) = 7.07, std(C) = 2.83
		assert.Equal(t, 7.07, rows[0].ScoreStd)
		assert.Equal(t, 4.95, rows[1].ScoreStd)
		assert.Equal(t, 1, rows[1].AssessmentCount)
	})
}

func Test_impute(t *testing.T) {
	nan := math.NaN()
	features := [][]float64{{1, nan, 1, 10}, {3, 2, 1, nan}, {5, 4, 2, nan}}
	impute(features)
	assert.Equal(t, [][]float64{{1, 3, 1, 10}, {3, 2, 1, 10}, {5, 4, 2, 10}}, features)

	features = [][]float64{{1, nan, 1, 1}}
	impute(features)
	assert.Equal(t, 0.0, features[0][1])
}

func Test_standardize(t *testing.T) {
	scaled := standardize([][]float64{{1, 0.1, 5, 0}, {3, 0.1, 5, 0}})
	assert.Equal(t, [][]float64{{-1, 0, 0, 0}, {1, 0, 0, 0}}, scaled)
}

func Test_rankClusters(t *testing.T) {
	ranks, n := rankClusters([]int{2, 0, 1, 0, 2}, []float64{90, 50, 70, 52, 88})
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{0, 2, 1, 2, 0}, ranks)
}

func TestService_ClusterCourses(t *testing.T) {
	svc, repo := setup(t)

	rows, err := svc.ClusterCourses(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rows)

	seedSeries(t, repo, "PLO1", "IS101", 80, 82)
	seedSeries(t, repo, "PLO2", "IS102", 60)

	rows, err = svc.ClusterCourses(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/outcome"
	"github.com/trezcool/obe/tests"
)

var testConf = core.AnalyticsConfig{
	DefaultHorizon:   2,
	MaxHorizon:       4,
	ClusterSeed:      42,
	KeyOutcomes:      []string{"PLO8", "PLO10", "PLO11"},
	KeyOutcomeWeight: 1.5,
	ReadinessTarget:  80,
}

func setup(t *testing.T) (*Service, outcome.Repository) {
	repo := testutil.NewRepository()
	return NewService(repo, testConf), repo
}

// seedSeries maps PLO `code` to course `course`/CLO1 and records one score per half-term from 2023/1.
func seedSeries(t *testing.T, repo outcome.Repository, code, course string, scores ...float64) {
	testutil.MappedOutcome(t, repo, code, course, "CLO1")
	for i, s := range scores {
		testutil.CreateAssessment(t, repo, course, "CLO1", 2023+i/2, i%2+1, s, 30)
	}
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, 2023.0, Period(2023, 1))
	assert.Equal(t, 2023.5, Period(2023, 2))
}

func TestService_AggregateOutcomeSeries(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		svc, _ := setup(t)
		samples, err := svc.AggregateOutcomeSeries(ctx)
		require.NoError(t, err)
		assert.NotNil(t, samples)
		assert.Empty(t, samples)
	})

	t.Run("unmapped record is dropped", func(t *testing.T) {
		svc, repo := setup(t)
		testutil.CreateAssessment(t, repo, "IS101", "CLO9", 2024, 1, 88, 20)

		samples, err := svc.AggregateOutcomeSeries(ctx)
		require.NoError(t, err)
		assert.Empty(t, samples)
	})

	t.Run("grouping", func(t *testing.T) {
		svc, repo := setup(t)
		testutil.CreateProgramOutcome(t, repo, "PLO1", "Analyze", "Knowledge")
		testutil.CreateProgramOutcome(t, repo, "PLO2", "Design", "Skill")
		testutil.CreateCourse(t, repo, "IS101", "Programming", 1)
		testutil.CreateCourseOutcome(t, repo, "IS101", "CLO1", "Loops")
		testutil.CreateCourseOutcome(t, repo, "IS101", "CLO2", "Functions")
		testutil.CreateMapping(t, repo, "IS101", "CLO1", "PLO1", outcome.MasteryIntroduced)
		testutil.CreateMapping(t, repo, "IS101", "CLO1", "PLO2", outcome.MasteryIntroduced)
		testutil.CreateMapping(t, repo, "IS101", "CLO2", "PLO1", outcome.MasteryReinforced)

		testutil.CreateAssessment(t, repo, "IS101", "CLO1", 2024, 1, 70, 10)
		testutil.CreateAssessment(t, repo, "IS101", "CLO2", 2024, 1, 80, 30)
		testutil.CreateAssessment(t, repo, "IS101", "CLO1", 2023, 2, 60, 25)
		testutil.CreateAssessment(t, repo, "IS101", "CLO3", 2023, 2, 10, 99) // unmapped

		samples, err := svc.AggregateOutcomeSeries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []OutcomePeriodSample{
			{Outcome: "PLO1", Year: 2023, TermHalf: 2, Period: 2023.5, MeanScore: 60, Participants: 25},
			{Outcome: "PLO1", Year: 2024, TermHalf: 1, Period: 2024, MeanScore: 75, Participants: 40},
			{Outcome: "PLO2", Year: 2023, TermHalf: 2, Period: 2023.5, MeanScore: 60, Participants: 25},
			{Outcome: "PLO2", Year: 2024, TermHalf: 1, Period: 2024, MeanScore: 70, Participants: 10},
		}, samples)
	})
}

func Test_splitByOutcome(t *testing.T) {
	samples := []OutcomePeriodSample{
		{Outcome: "PLO1", Period: 2023}, {Outcome: "PLO1", Period: 2023.5},
		{Outcome: "PLO2", Period: 2023},
		{Outcome: "PLO3", Period: 2023}, {Outcome: "PLO3", Period: 2024},
	}
	got := splitByOutcome(samples)
	require.Len(t, got, 3)
	assert.Len(t, got[0], 2)
	assert.Len(t, got[1], 1)
	assert.Equal(t, "PLO3", got[2][1].Outcome)
	assert.Empty(t, splitByOutcome(nil))
}

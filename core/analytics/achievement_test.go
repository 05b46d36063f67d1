package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/obe/core/outcome"
	"github.com/trezcool/obe/tests"
)

func seedAchievements(t *testing.T, repo outcome.Repository) {
	testutil.CreateProgramOutcome(t, repo, "PLO1", "Analyze", "Knowledge")
	testutil.CreateProgramOutcome(t, repo, "PLO2", "Design", "Skill")
	testutil.CreateProgramOutcome(t, repo, "PLO3", "Communicate", "Skill")
	testutil.CreateCourse(t, repo, "IS101", "Programming", 1)
	testutil.CreateCourseOutcome(t, repo, "IS101", "CLO1", "Loops")
	testutil.CreateCourseOutcome(t, repo, "IS101", "CLO2", "Functions")
	testutil.CreateMapping(t, repo, "IS101", "CLO1", "PLO1", outcome.MasteryIntroduced)
	testutil.CreateMapping(t, repo, "IS101", "CLO2", "PLO2", outcome.MasteryIntroduced)
	testutil.CreateMapping(t, repo, "IS101", "CLO2", "PLO3", outcome.MasteryIntroduced)

	testutil.CreateAssessment(t, repo, "IS101", "CLO1", 2024, 1, 70, 30)
	testutil.CreateAssessment(t, repo, "IS101", "CLO1", 2024, 2, 80, 30)
	testutil.CreateAssessment(t, repo, "IS101", "CLO2", 2024, 1, 90, 30)
	testutil.CreateAssessment(t, repo, "IS999", "CLO1", 2024, 1, 10, 30) // unmapped
}

func TestService_achievement(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)
	seedAchievements(t, repo)

	byOutcome, err := svc.OutcomeAchievement(ctx)
	require.NoError(t, err)
	assert.Equal(t, []OutcomeAchievement{
		{Code: "PLO1", Description: "Analyze", Category: "Knowledge", Achievement: 75, Assessments: 2},
		{Code: "PLO2", Description: "Design", Category: "Skill", Achievement: 90, Assessments: 1},
		{Code: "PLO3", Description: "Communicate", Category: "Skill", Achievement: 90, Assessments: 1},
	}, byOutcome)

	byCategory, err := svc.AchievementByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CategoryAchievement{
		{Category: "Knowledge", Achievement: 75},
		{Category: "Skill", Achievement: 90},
	}, byCategory)

	avg, err := svc.AverageAchievement(ctx)
	require.NoError(t, err)
	assert.Equal(t, 62.5, avg)

	mapped, err := svc.MappedAchievement(ctx)
	require.NoError(t, err)
	assert.Equal(t, 82.5, mapped) // (70 + 80 + 90 + 90) / 4
}

func TestService_achievement_empty(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	byOutcome, err := svc.OutcomeAchievement(ctx)
	require.NoError(t, err)
	assert.Empty(t, byOutcome)

	avg, err := svc.AverageAchievement(ctx)
	require.NoError(t, err)
	assert.Zero(t, avg)

	mapped, err := svc.MappedAchievement(ctx)
	require.NoError(t, err)
	assert.Zero(t, mapped)
}

func TestService_Dashboard(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Zero(t, dash.TotalAssessments)
	assert.NotNil(t, dash.RecentAssessments)
	assert.Equal(t, map[string]int{RiskHigh: 0, RiskMedium: 0, RiskLow: 0}, dash.RiskDistribution)

	seedAchievements(t, repo)
	for i := 0; i < 10; i++ {
		testutil.CreateAssessment(t, repo, "IS101", "CLO1", 2020, 1, 60, 30)
	}

	dash, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, dash.TotalOutcomes)
	assert.Equal(t, 1, dash.TotalCourses)
	assert.Equal(t, 14, dash.TotalAssessments)
	require.Len(t, dash.RecentAssessments, RecentAssessmentsLimit)
	assert.Equal(t, 2024, dash.RecentAssessments[0].Year)
	assert.Equal(t, 2, dash.RecentAssessments[0].TermHalf)
	assert.Equal(t, 2020, dash.RecentAssessments[RecentAssessmentsLimit-1].Year)
	assert.Len(t, dash.ByCategory, 2)
}

func TestService_GraduationReadiness(t *testing.T) {
	svc, _ := setup(t)

	tests := []struct {
		name        string
		scores      []OutcomeScore
		wantOverall float64
		wantStatus  string
	}{
		{
			name:        "empty",
			wantOverall: 0,
			wantStatus:  ReadinessNeedsSupport,
		},
		{
			name: "key outcome is weighted and capped",
			scores: []OutcomeScore{
				{Outcome: "PLO1", Score: 80}, {Outcome: "PLO1", Score: 60}, // 70 -> 87.5
				{Outcome: "plo8", Score: 80}, // 150 -> 100
			},
			wantOverall: 93.75,
			wantStatus:  ReadinessReady,
		},
		{
			name:        "needs improvement",
			scores:      []OutcomeScore{{Outcome: "PLO1", Score: 60}}, // 75
			wantOverall: 75,
			wantStatus:  ReadinessNeedsWork,
		},
		{
			name:        "needs significant support",
			scores:      []OutcomeScore{{Outcome: "PLO2", Score: 40}},
			wantOverall: 50,
			wantStatus:  ReadinessNeedsSupport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.GraduationReadiness(tt.scores)
			assert.Equal(t, tt.wantOverall, got.Overall)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.NotNil(t, got.Outcomes)
		})
	}

	got := svc.GraduationReadiness([]OutcomeScore{{Outcome: "PLO10", Score: 40}, {Outcome: "PLO3", Score: 100}})
	require.Len(t, got.Outcomes, 2)
	assert.Equal(t, OutcomeReadiness{Outcome: "PLO10", Average: 40, Weight: 1.5, Readiness: 75}, got.Outcomes[0])
	assert.Equal(t, OutcomeReadiness{Outcome: "PLO3", Average: 100, Weight: 1, Readiness: 100}, got.Outcomes[1])
}

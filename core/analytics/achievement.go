package analytics

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/outcome"
)

// RecentAssessmentsLimit is the number of latest assessments shown on the dashboard.
const RecentAssessmentsLimit = 10

type (
	OutcomeAchievement struct {
		Code        string  `json:"code"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Achievement float64 `json:"achievement"`
		Assessments int     `json:"assessments"`
	}

	CategoryAchievement struct {
		Category    string  `json:"category"`
		Achievement float64 `json:"achievement"`
	}

	Dashboard struct {
		TotalOutcomes      int                        `json:"total_outcomes"`
		TotalCourses       int                        `json:"total_courses"`
		TotalAssessments   int                        `json:"total_assessments"`
		AverageAchievement float64                    `json:"average_achievement"`
		ByCategory         []CategoryAchievement      `json:"by_category"`
		RiskDistribution   map[string]int             `json:"risk_distribution"`
		RecentAssessments  []outcome.AssessmentRecord `json:"recent_assessments"`
	}
)

type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v float64) {
	a.sum += v
	a.n++
}

func (a meanAcc) mean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

// joinMatrix calls fn for every (record, mapping) pair sharing a course & course outcome.
func joinMatrix(recs []outcome.AssessmentRecord, matrix []outcome.MappingRow, fn func(outcome.AssessmentRecord, outcome.MappingRow)) {
	type cloKey struct{ course, clo string }
	byClo := make(map[cloKey][]outcome.MappingRow, len(matrix))
	for _, m := range matrix {
		k := cloKey{m.CourseCode, m.CourseOutcomeCode}
		byClo[k] = append(byClo[k], m)
	}
	for _, rec := range recs {
		for _, m := range byClo[cloKey{rec.CourseCode, rec.CourseOutcomeCode}] {
			fn(rec, m)
		}
	}
}

// AchievementByOutcome averages the mapped assessment scores of every program outcome, ascending by code.
func AchievementByOutcome(recs []outcome.AssessmentRecord, matrix []outcome.MappingRow) []OutcomeAchievement {
	accs := make(map[string]*meanAcc)
	info := make(map[string]outcome.MappingRow)
	joinMatrix(recs, matrix, func(rec outcome.AssessmentRecord, m outcome.MappingRow) {
		acc, ok := accs[m.ProgramOutcomeCode]
		if !ok {
			acc = new(meanAcc)
			accs[m.ProgramOutcomeCode] = acc
			info[m.ProgramOutcomeCode] = m
		}
		acc.add(rec.MeanScore)
	})

	out := make([]OutcomeAchievement, 0, len(accs))
	for code, acc := range accs {
		m := info[code]
		out = append(out, OutcomeAchievement{
			Code:        code,
			Description: m.ProgramOutcomeDescription,
			Category:    m.ProgramOutcomeCategory,
			Achievement: core.Round(acc.mean(), 2),
			Assessments: acc.n,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// AchievementByCategory averages the mapped assessment scores per program outcome category.
func AchievementByCategory(recs []outcome.AssessmentRecord, matrix []outcome.MappingRow) []CategoryAchievement {
	accs := make(map[string]*meanAcc)
	joinMatrix(recs, matrix, func(rec outcome.AssessmentRecord, m outcome.MappingRow) {
		acc, ok := accs[m.ProgramOutcomeCategory]
		if !ok {
			acc = new(meanAcc)
			accs[m.ProgramOutcomeCategory] = acc
		}
		acc.add(rec.MeanScore)
	})

	out := make([]CategoryAchievement, 0, len(accs))
	for cat, acc := range accs {
		out = append(out, CategoryAchievement{Category: cat, Achievement: core.Round(acc.mean(), 2)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// AverageScore is the mean of all record scores, 0 when there is none.
func AverageScore(recs []outcome.AssessmentRecord) float64 {
	var acc meanAcc
	for _, rec := range recs {
		acc.add(rec.MeanScore)
	}
	return core.Round(acc.mean(), 2)
}

// MappedAverageScore is the mean score over the records joined with the matrix, 0 when nothing joins.
func MappedAverageScore(recs []outcome.AssessmentRecord, matrix []outcome.MappingRow) float64 {
	var acc meanAcc
	joinMatrix(recs, matrix, func(rec outcome.AssessmentRecord, _ outcome.MappingRow) {
		acc.add(rec.MeanScore)
	})
	return core.Round(acc.mean(), 2)
}

func (svc *Service) OutcomeAchievement(ctx context.Context) ([]OutcomeAchievement, error) {
	recs, matrix, err := svc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return AchievementByOutcome(recs, matrix), nil
}

func (svc *Service) AchievementByCategory(ctx context.Context) ([]CategoryAchievement, error) {
	recs, matrix, err := svc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return AchievementByCategory(recs, matrix), nil
}

func (svc *Service) AverageAchievement(ctx context.Context) (float64, error) {
	recs, err := svc.store.GetAssessments(ctx, outcome.AssessmentFilter{})
	if err != nil {
		return 0, errors.Wrap(err, "getting assessments")
	}
	return AverageScore(recs), nil
}

// MappedAchievement is the average score of the assessments reaching a program outcome.
func (svc *Service) MappedAchievement(ctx context.Context) (float64, error) {
	recs, matrix, err := svc.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return MappedAverageScore(recs, matrix), nil
}

func (svc *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	plos, err := svc.store.ListProgramOutcomes(ctx)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "listing program outcomes")
	}
	courses, err := svc.store.ListCourses(ctx)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "listing courses")
	}
	recs, matrix, err := svc.snapshot(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	recent := recs
	if len(recent) > RecentAssessmentsLimit {
		recent = recent[:RecentAssessmentsLimit]
	}
	if recent == nil {
		recent = []outcome.AssessmentRecord{}
	}

	return Dashboard{
		TotalOutcomes:      len(plos),
		TotalCourses:       len(courses),
		TotalAssessments:   len(recs),
		AverageAchievement: AverageScore(recs),
		ByCategory:         AchievementByCategory(recs, matrix),
		RiskDistribution:   RiskDistribution(AssessRisk(AggregateSeries(recs, matrix))),
		RecentAssessments:  recent,
	}, nil
}

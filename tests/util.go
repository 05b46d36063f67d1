package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/obe/core/outcome"
	"github.com/trezcool/obe/storage/database/inmem"
)

// NewRepository returns an isolated, empty in-memory repository.
func NewRepository() outcome.Repository {
	return inmemdb.NewOutcomeRepository(inmemdb.Open())
}

func CreateProgramOutcome(t *testing.T, repo outcome.Repository, code, desc, category string) outcome.ProgramOutcome {
	po := outcome.ProgramOutcome{Code: code, Description: desc, Category: category, CreatedAt: time.Now().UTC()}
	if ok, err := repo.CreateProgramOutcome(context.Background(), po); err != nil || !ok {
		t.Fatalf("CreateProgramOutcome(%s) failed: %v, %v", code, ok, err)
	}
	return po
}

func CreateCourse(t *testing.T, repo outcome.Repository, code, name string, term int) outcome.Course {
	c := outcome.Course{Code: code, Name: name, Term: term, Credits: 3, CreatedAt: time.Now().UTC()}
	if ok, err := repo.CreateCourse(context.Background(), c); err != nil || !ok {
		t.Fatalf("CreateCourse(%s) failed: %v, %v", code, ok, err)
	}
	return c
}

func CreateCourseOutcome(t *testing.T, repo outcome.Repository, courseCode, code, desc string) outcome.CourseOutcome {
	co := outcome.CourseOutcome{CourseCode: courseCode, Code: code, Description: desc, TaxonomyLevel: "C3"}
	if ok, err := repo.CreateCourseOutcome(context.Background(), co); err != nil || !ok {
		t.Fatalf("CreateCourseOutcome(%s/%s) failed: %v, %v", courseCode, code, ok, err)
	}
	return co
}

func CreateMapping(t *testing.T, repo outcome.Repository, courseCode, cloCode, ploCode, mastery string) outcome.OutcomeMapping {
	m := outcome.OutcomeMapping{
		CourseCode:         courseCode,
		CourseOutcomeCode:  cloCode,
		ProgramOutcomeCode: ploCode,
		MasteryLevel:       mastery,
		Weight:             1,
	}
	if ok, err := repo.CreateMapping(context.Background(), m); err != nil || !ok {
		t.Fatalf("CreateMapping(%s/%s->%s) failed: %v, %v", courseCode, cloCode, ploCode, ok, err)
	}
	return m
}

func CreateAssessment(
	t *testing.T,
	repo outcome.Repository,
	courseCode, cloCode string,
	year, termHalf int,
	score float64,
	participants int,
) outcome.AssessmentRecord {
	rec := outcome.AssessmentRecord{
		CourseCode:        courseCode,
		CourseOutcomeCode: cloCode,
		Year:              year,
		TermHalf:          termHalf,
		Kind:              "Final Exam",
		MeanScore:         score,
		Participants:      participants,
		CreatedAt:         time.Now().UTC(),
	}
	if ok, err := repo.CreateAssessment(context.Background(), rec); err != nil || !ok {
		t.Fatalf("CreateAssessment(%s/%s) failed: %v, %v", courseCode, cloCode, ok, err)
	}
	return rec
}

// MappedOutcome creates a program outcome reached through a single course outcome of a fresh course.
func MappedOutcome(t *testing.T, repo outcome.Repository, ploCode, courseCode, cloCode string) {
	CreateProgramOutcome(t, repo, ploCode, "Outcome "+ploCode, "Knowledge")
	CreateCourse(t, repo, courseCode, "Course "+courseCode, 1)
	CreateCourseOutcome(t, repo, courseCode, cloCode, "Objective "+cloCode)
	CreateMapping(t, repo, courseCode, cloCode, ploCode, outcome.MasteryReinforced)
}

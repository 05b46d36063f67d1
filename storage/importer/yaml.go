package importer

import (
	"bytes"
	"context"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/obe/core/outcome"
)

// document is a whole programme; sections are created parents first.
type document struct {
	ProgramOutcomes []*outcome.NewProgramOutcome `yaml:"program_outcomes"`
	Courses         []*outcome.NewCourse         `yaml:"courses"`
	CourseOutcomes  []*outcome.NewCourseOutcome  `yaml:"course_outcomes"`
	Mappings        []*outcome.NewOutcomeMapping `yaml:"mappings"`
	Assessments     []*outcome.NewAssessment     `yaml:"assessments"`
	IPOComponents   []*outcome.NewIPOComponent   `yaml:"ipo_components"`
}

// Seed loads the embedded sample programme. Seeding twice only skips duplicates,
// except for assessments which have no unique key and are only created into an empty store.
func (imp *Importer) Seed(ctx context.Context) (Result, error) {
	return imp.LoadYAML(ctx, bytes.NewReader(seedYAML))
}

func (imp *Importer) LoadYAML(ctx context.Context, r io.Reader) (Result, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return Result{}, errors.Wrap(err, "decoding yaml")
	}

	var res Result
	err := create(ctx, imp, &res, "program_outcomes", doc.ProgramOutcomes,
		func(ctx context.Context, npo *outcome.NewProgramOutcome) (bool, error) {
			_, ok, err := imp.svc.CreateProgramOutcome(ctx, *npo)
			return ok, err
		})
	if err != nil {
		return res, err
	}

	err = create(ctx, imp, &res, "courses", doc.Courses,
		func(ctx context.Context, nc *outcome.NewCourse) (bool, error) {
			_, ok, err := imp.svc.CreateCourse(ctx, *nc)
			return ok, err
		})
	if err != nil {
		return res, err
	}

	err = create(ctx, imp, &res, "course_outcomes", doc.CourseOutcomes,
		func(ctx context.Context, nco *outcome.NewCourseOutcome) (bool, error) {
			_, ok, err := imp.svc.CreateCourseOutcome(ctx, *nco)
			return ok, err
		})
	if err != nil {
		return res, err
	}

	err = create(ctx, imp, &res, "mappings", doc.Mappings,
		func(ctx context.Context, nom *outcome.NewOutcomeMapping) (bool, error) {
			_, ok, err := imp.svc.CreateMapping(ctx, *nom)
			return ok, err
		})
	if err != nil {
		return res, err
	}

	existing, err := imp.svc.GetAssessments(ctx, outcome.AssessmentFilter{})
	if err != nil {
		return res, errors.Wrap(err, "getting assessments")
	}
	if len(existing) == 0 {
		err = create(ctx, imp, &res, "assessments", doc.Assessments,
			func(ctx context.Context, na *outcome.NewAssessment) (bool, error) {
				_, ok, err := imp.svc.CreateAssessment(ctx, *na)
				return ok, err
			})
		if err != nil {
			return res, err
		}
	} else {
		res.Skipped += len(doc.Assessments)
	}

	err = create(ctx, imp, &res, "ipo_components", doc.IPOComponents,
		func(ctx context.Context, nic *outcome.NewIPOComponent) (bool, error) {
			_, ok, err := imp.svc.CreateIPOComponent(ctx, *nic)
			return ok, err
		})
	return res, err
}

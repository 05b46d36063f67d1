package outcome

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrUnknownReference = errors.New("referenced course, course outcome or program outcome does not exist")
	ErrIPONotFound      = errors.New("ipo component not found")
)

type (
	// Reader is the read side of the store, the only part analytics depends on.
	Reader interface {
		ListProgramOutcomes(ctx context.Context) ([]ProgramOutcome, error)
		ListCourses(ctx context.Context) ([]Course, error)
		// ListCourseOutcomes returns every course outcome when courseCode is empty.
		ListCourseOutcomes(ctx context.Context, courseCode string) ([]CourseOutcome, error)
		// GetOutcomeMatrix inner joins mappings with their course, course outcome and program outcome.
		GetOutcomeMatrix(ctx context.Context) ([]MappingRow, error)
		// GetAssessments orders records by year DESC, term half DESC, id ASC.
		GetAssessments(ctx context.Context, filter AssessmentFilter) ([]AssessmentRecord, error)
		GetIPOComponents(ctx context.Context) ([]IPOComponent, error)
	}

	// Repository writers report a duplicate unique key as (false, nil).
	Repository interface {
		Reader
		CreateProgramOutcome(ctx context.Context, po ProgramOutcome) (bool, error)
		CreateCourse(ctx context.Context, c Course) (bool, error)
		CreateCourseOutcome(ctx context.Context, co CourseOutcome) (bool, error)
		CreateMapping(ctx context.Context, m OutcomeMapping) (bool, error)
		CreateAssessment(ctx context.Context, rec AssessmentRecord) (bool, error)
		CreateIPOComponent(ctx context.Context, ipo IPOComponent) (bool, error)
		// UpdateIPOAchievement returns false when no component has that name.
		UpdateIPOAchievement(ctx context.Context, component string, ach IPOAchievement) (bool, error)
	}

	ServiceInterface interface {
		Reader
		CreateProgramOutcome(ctx context.Context, npo NewProgramOutcome) (ProgramOutcome, bool, error)
		CreateCourse(ctx context.Context, nc NewCourse) (Course, bool, error)
		CreateCourseOutcome(ctx context.Context, nco NewCourseOutcome) (CourseOutcome, bool, error)
		CreateMapping(ctx context.Context, nom NewOutcomeMapping) (OutcomeMapping, bool, error)
		CreateAssessment(ctx context.Context, na NewAssessment) (AssessmentRecord, bool, error)
		CreateIPOComponent(ctx context.Context, nic NewIPOComponent) (IPOComponent, bool, error)
		UpdateIPOAchievement(ctx context.Context, component string, ach IPOAchievement) error
	}

	Service struct {
		Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{Repository: repo}
}

func (svc *Service) CreateProgramOutcome(ctx context.Context, npo NewProgramOutcome) (ProgramOutcome, bool, error) {
	po := ProgramOutcome{
		Code:        npo.Code,
		Description: npo.Description,
		Category:    npo.Category,
		CreatedAt:   time.Now().UTC(),
	}
	ok, err := svc.Repository.CreateProgramOutcome(ctx, po)
	return po, ok, err
}

func (svc *Service) CreateCourse(ctx context.Context, nc NewCourse) (Course, bool, error) {
	c := Course{
		Code:        nc.Code,
		Name:        nc.Name,
		Term:        nc.Term,
		Credits:     nc.Credits,
		Description: nc.Description,
		CreatedAt:   time.Now().UTC(),
	}
	ok, err := svc.Repository.CreateCourse(ctx, c)
	return c, ok, err
}

func (svc *Service) CreateCourseOutcome(ctx context.Context, nco NewCourseOutcome) (CourseOutcome, bool, error) {
	co := CourseOutcome{
		CourseCode:    nco.CourseCode,
		Code:          nco.Code,
		Description:   nco.Description,
		TaxonomyLevel: nco.TaxonomyLevel,
	}
	ok, err := svc.Repository.CreateCourseOutcome(ctx, co)
	return co, ok, err
}

func (svc *Service) CreateMapping(ctx context.Context, nom NewOutcomeMapping) (OutcomeMapping, bool, error) {
	m := OutcomeMapping{
		CourseCode:         nom.CourseCode,
		CourseOutcomeCode:  nom.CourseOutcomeCode,
		ProgramOutcomeCode: nom.ProgramOutcomeCode,
		MasteryLevel:       nom.MasteryLevel,
		Weight:             nom.Weight,
	}
	ok, err := svc.Repository.CreateMapping(ctx, m)
	return m, ok, err
}

func (svc *Service) CreateAssessment(ctx context.Context, na NewAssessment) (AssessmentRecord, bool, error) {
	rec := AssessmentRecord{
		CourseCode:        na.CourseCode,
		CourseOutcomeCode: na.CourseOutcomeCode,
		Year:              na.Year,
		TermHalf:          na.TermHalf,
		Kind:              na.Kind,
		MeanScore:         na.MeanScore,
		Participants:      na.Participants,
		CreatedAt:         time.Now().UTC(),
	}
	ok, err := svc.Repository.CreateAssessment(ctx, rec)
	return rec, ok, err
}

func (svc *Service) CreateIPOComponent(ctx context.Context, nic NewIPOComponent) (IPOComponent, bool, error) {
	ipo := IPOComponent{
		Component: nic.Component,
		Category:  nic.Category,
		Weight:    nic.Weight,
		Target:    nic.Target,
		Actual:    nic.Actual,
		Status:    nic.Status,
		Note:      nic.Note,
		Year:      nic.Year,
		TermHalf:  nic.TermHalf,
	}
	ok, err := svc.Repository.CreateIPOComponent(ctx, ipo)
	return ipo, ok, err
}

func (svc *Service) UpdateIPOAchievement(ctx context.Context, component string, ach IPOAchievement) error {
	ok, err := svc.Repository.UpdateIPOAchievement(ctx, component, ach)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIPONotFound
	}
	return nil
}

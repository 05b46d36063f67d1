package outcome

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/obe/core"
)

// NewProgramOutcome contains information needed to create a new ProgramOutcome.
type NewProgramOutcome struct {
	Code        string `json:"code" validate:"required,max=20,code" yaml:"code"`
	Description string `json:"description" validate:"required,notblank" yaml:"description"`
	Category    string `json:"category" validate:"required,max=50" yaml:"category"`
}

func (npo *NewProgramOutcome) Validate(validate *validator.Validate) error {
	npo.Code = core.CleanCode(npo.Code)
	npo.Description = core.CleanString(npo.Description)
	npo.Category = core.CleanString(npo.Category)
	return validate.Struct(npo)
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Code        string `json:"code" validate:"required,max=20,code" yaml:"code"`
	Name        string `json:"name" validate:"required,notblank,max=200" yaml:"name"`
	Term        int    `json:"term" validate:"required,min=1,max=14" yaml:"term"`
	Credits     int    `json:"credits" validate:"required,min=1,max=24" yaml:"credits"`
	Description string `json:"description" yaml:"description"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Code = core.CleanCode(nc.Code)
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// NewCourseOutcome contains information needed to create a new CourseOutcome.
type NewCourseOutcome struct {
	CourseCode    string `json:"course_code" validate:"required,code" yaml:"course_code"`
	Code          string `json:"code" validate:"required,max=20,code" yaml:"code"`
	Description   string `json:"description" validate:"required,notblank" yaml:"description"`
	TaxonomyLevel string `json:"taxonomy_level" validate:"max=20" yaml:"taxonomy_level"`
}

func (nco *NewCourseOutcome) Validate(validate *validator.Validate) error {
	nco.CourseCode = core.CleanCode(nco.CourseCode)
	nco.Code = core.CleanCode(nco.Code)
	nco.Description = core.CleanString(nco.Description)
	nco.TaxonomyLevel = core.CleanCode(nco.TaxonomyLevel)
	return validate.Struct(nco)
}

// NewOutcomeMapping contains information needed to map a CourseOutcome to a ProgramOutcome.
// Weight defaults to 1.
type NewOutcomeMapping struct {
	CourseCode         string  `json:"course_code" validate:"required,code" yaml:"course_code"`
	CourseOutcomeCode  string  `json:"course_outcome_code" validate:"required,code" yaml:"course_outcome_code"`
	ProgramOutcomeCode string  `json:"program_outcome_code" validate:"required,code" yaml:"program_outcome_code"`
	MasteryLevel       string  `json:"mastery_level" validate:"required,oneof=I R M" yaml:"mastery_level"`
	Weight             float64 `json:"weight" validate:"gte=0,lte=100" yaml:"weight"`
}

func (nom *NewOutcomeMapping) Validate(validate *validator.Validate) error {
	nom.CourseCode = core.CleanCode(nom.CourseCode)
	nom.CourseOutcomeCode = core.CleanCode(nom.CourseOutcomeCode)
	nom.ProgramOutcomeCode = core.CleanCode(nom.ProgramOutcomeCode)
	nom.MasteryLevel = core.CleanCode(nom.MasteryLevel)
	if nom.Weight == 0 {
		nom.Weight = 1
	}
	return validate.Struct(nom)
}

// NewAssessment contains information needed to record a new AssessmentRecord.
type NewAssessment struct {
	CourseCode        string  `json:"course_code" validate:"required,code" yaml:"course_code"`
	CourseOutcomeCode string  `json:"course_outcome_code" validate:"required,code" yaml:"course_outcome_code"`
	Year              int     `json:"year" validate:"required,min=1900,max=2200" yaml:"year"`
	TermHalf          int     `json:"term_half" validate:"required,oneof=1 2" yaml:"term_half"`
	Kind              string  `json:"kind" validate:"required,notblank,max=50" yaml:"kind"`
	MeanScore         float64 `json:"mean_score" validate:"gte=0,lte=100" yaml:"mean_score"`
	Participants      int     `json:"participants" validate:"gte=0" yaml:"participants"`
}

func (na *NewAssessment) Validate(validate *validator.Validate) error {
	na.CourseCode = core.CleanCode(na.CourseCode)
	na.CourseOutcomeCode = core.CleanCode(na.CourseOutcomeCode)
	na.Kind = core.CleanString(na.Kind)
	return validate.Struct(na)
}

// NewIPOComponent contains information needed to create a new IPOComponent.
type NewIPOComponent struct {
	Component string  `json:"component" validate:"required,notblank,max=200" yaml:"component"`
	Category  string  `json:"category" validate:"required,oneof=Input Process Output" yaml:"category"`
	Weight    int     `json:"weight" validate:"gte=0" yaml:"weight"`
	Target    float64 `json:"target" validate:"gte=0" yaml:"target"`
	Actual    float64 `json:"actual" validate:"gte=0" yaml:"actual"`
	Status    string  `json:"status" validate:"max=50" yaml:"status"`
	Note      string  `json:"note" validate:"max=500" yaml:"note"`
	Year      int     `json:"year" validate:"required,min=1900,max=2200" yaml:"year"`
	TermHalf  int     `json:"term_half" validate:"required,oneof=1 2" yaml:"term_half"`
}

func (nic *NewIPOComponent) Validate(validate *validator.Validate) error {
	nic.Component = core.CleanString(nic.Component)
	nic.Category = core.CleanString(nic.Category)
	nic.Status = core.CleanString(nic.Status)
	nic.Note = core.CleanString(nic.Note)
	return validate.Struct(nic)
}

func (ia *IPOAchievement) Validate(validate *validator.Validate) error {
	ia.Status = core.CleanString(ia.Status)
	ia.Note = core.CleanString(ia.Note)
	return validate.Struct(ia)
}

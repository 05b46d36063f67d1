package outcome

import (
	"time"
)

// Mastery levels of an OutcomeMapping.
const (
	MasteryIntroduced = "I"
	MasteryReinforced = "R"
	MasteryMastered   = "M"
)

// IPO categories.
const (
	IPOInput   = "Input"
	IPOProcess = "Process"
	IPOOutput  = "Output"
)

var (
	MasteryLevels = []string{MasteryIntroduced, MasteryReinforced, MasteryMastered}
	IPOCategories = []string{IPOInput, IPOProcess, IPOOutput}
)

// ProgramOutcome is a competency a graduate is expected to demonstrate (PLO).
type ProgramOutcome struct {
	ID          int       `json:"id,omitempty"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type Course struct {
	ID          int       `json:"id,omitempty"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Term        int       `json:"term"`
	Credits     int       `json:"credits"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CourseOutcome is a course level learning objective (CLO).
type CourseOutcome struct {
	ID            int    `json:"id,omitempty"`
	CourseCode    string `json:"course_code"`
	Code          string `json:"code"`
	Description   string `json:"description"`
	TaxonomyLevel string `json:"taxonomy_level"`
}

// OutcomeMapping links a CourseOutcome to a ProgramOutcome.
type OutcomeMapping struct {
	ID                 int     `json:"id,omitempty"`
	CourseCode         string  `json:"course_code"`
	CourseOutcomeCode  string  `json:"course_outcome_code"`
	ProgramOutcomeCode string  `json:"program_outcome_code"`
	MasteryLevel       string  `json:"mastery_level"`
	Weight             float64 `json:"weight"`
}

// MappingRow is an OutcomeMapping joined with the descriptive fields of the entities it links.
type MappingRow struct {
	CourseCode                string  `json:"course_code"`
	CourseName                string  `json:"course_name"`
	CourseTerm                int     `json:"course_term"`
	CourseOutcomeCode         string  `json:"course_outcome_code"`
	CourseOutcomeDescription  string  `json:"course_outcome_description"`
	ProgramOutcomeCode        string  `json:"program_outcome_code"`
	ProgramOutcomeDescription string  `json:"program_outcome_description"`
	ProgramOutcomeCategory    string  `json:"program_outcome_category"`
	MasteryLevel              string  `json:"mastery_level"`
	Weight                    float64 `json:"weight"`
}

// AssessmentRecord is one observed mean score of a course outcome in a given year/term half.
type AssessmentRecord struct {
	ID                int       `json:"id,omitempty"`
	CourseCode        string    `json:"course_code"`
	CourseOutcomeCode string    `json:"course_outcome_code"`
	Year              int       `json:"year"`
	TermHalf          int       `json:"term_half"`
	Kind              string    `json:"kind"`
	MeanScore         float64   `json:"mean_score"`
	Participants      int       `json:"participants"`
	CreatedAt         time.Time `json:"created_at"`
}

// IPOComponent is an accreditation Input/Process/Output metric.
type IPOComponent struct {
	ID        int     `json:"id,omitempty"`
	Component string  `json:"component"`
	Category  string  `json:"category"`
	Weight    int     `json:"weight"`
	Target    float64 `json:"target"`
	Actual    float64 `json:"actual"`
	Status    string  `json:"status"`
	Note      string  `json:"note"`
	Year      int     `json:"year"`
	TermHalf  int     `json:"term_half"`
}

// AssessmentFilter filters assessment records; zero values are ignored.
type AssessmentFilter struct {
	Year     int
	TermHalf int
}

func (f AssessmentFilter) Match(rec AssessmentRecord) bool {
	if f.Year != 0 && rec.Year != f.Year {
		return false
	}
	if f.TermHalf != 0 && rec.TermHalf != f.TermHalf {
		return false
	}
	return true
}

// IPOAchievement is the actual achievement reported for an IPOComponent.
type IPOAchievement struct {
	Actual float64 `json:"actual" validate:"gte=0"`
	Status string  `json:"status" validate:"max=50"`
	Note   string  `json:"note" validate:"max=500"`
}

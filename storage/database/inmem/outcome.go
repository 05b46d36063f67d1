package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/obe/core/outcome"
)

type outcomeRepository struct {
	db *DB
}

var _ outcome.Repository = (*outcomeRepository)(nil)

func NewOutcomeRepository(db *DB) outcome.Repository {
	return &outcomeRepository{db: db}
}

func (repo *outcomeRepository) courseExists(code string) bool {
	repo.db.courses.mutex.RLock()
	defer repo.db.courses.mutex.RUnlock()
	return repo.db.courses.exists(func(c outcome.Course) bool { return c.Code == code })
}

func (repo *outcomeRepository) courseOutcomeExists(courseCode, code string) bool {
	repo.db.courseOutcomes.mutex.RLock()
	defer repo.db.courseOutcomes.mutex.RUnlock()
	return repo.db.courseOutcomes.exists(func(co outcome.CourseOutcome) bool {
		return co.CourseCode == courseCode && co.Code == code
	})
}

func (repo *outcomeRepository) programOutcomeExists(code string) bool {
	repo.db.programOutcomes.mutex.RLock()
	defer repo.db.programOutcomes.mutex.RUnlock()
	return repo.db.programOutcomes.exists(func(po outcome.ProgramOutcome) bool { return po.Code == code })
}

func (repo *outcomeRepository) ListProgramOutcomes(_ context.Context) ([]outcome.ProgramOutcome, error) {
	t := repo.db.programOutcomes
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	pos := t.snapshot()
	sort.Slice(pos, func(i, j int) bool { return pos[i].Code < pos[j].Code })
	return pos, nil
}

func (repo *outcomeRepository) ListCourses(_ context.Context) ([]outcome.Course, error) {
	t := repo.db.courses
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	courses := t.snapshot()
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].Term != courses[j].Term {
			return courses[i].Term < courses[j].Term
		}
		return courses[i].Code < courses[j].Code
	})
	return courses, nil
}

func (repo *outcomeRepository) ListCourseOutcomes(_ context.Context, courseCode string) ([]outcome.CourseOutcome, error) {
	t := repo.db.courseOutcomes
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	cos := make([]outcome.CourseOutcome, 0, len(t.rows))
	for _, co := range t.rows {
		if courseCode == "" || co.CourseCode == courseCode {
			cos = append(cos, co)
		}
	}
	sort.Slice(cos, func(i, j int) bool {
		if cos[i].CourseCode != cos[j].CourseCode {
			return cos[i].CourseCode < cos[j].CourseCode
		}
		return cos[i].Code < cos[j].Code
	})
	return cos, nil
}

func (repo *outcomeRepository) GetOutcomeMatrix(_ context.Context) ([]outcome.MappingRow, error) {
	repo.db.mappings.mutex.RLock()
	mappings := repo.db.mappings.snapshot()
	repo.db.mappings.mutex.RUnlock()

	repo.db.courses.mutex.RLock()
	courses := make(map[string]outcome.Course, len(repo.db.courses.rows))
	for _, c := range repo.db.courses.rows {
		courses[c.Code] = c
	}
	repo.db.courses.mutex.RUnlock()

	type cloKey struct{ course, code string }
	repo.db.courseOutcomes.mutex.RLock()
	clos := make(map[cloKey]outcome.CourseOutcome, len(repo.db.courseOutcomes.rows))
	for _, co := range repo.db.courseOutcomes.rows {
		clos[cloKey{co.CourseCode, co.Code}] = co
	}
	repo.db.courseOutcomes.mutex.RUnlock()

	repo.db.programOutcomes.mutex.RLock()
	plos := make(map[string]outcome.ProgramOutcome, len(repo.db.programOutcomes.rows))
	for _, po := range repo.db.programOutcomes.rows {
		plos[po.Code] = po
	}
	repo.db.programOutcomes.mutex.RUnlock()

	rows := make([]outcome.MappingRow, 0, len(mappings))
	for _, m := range mappings {
		c, ok := courses[m.CourseCode]
		if !ok {
			continue
		}
		co, ok := clos[cloKey{m.CourseCode, m.CourseOutcomeCode}]
		if !ok {
			continue
		}
		po, ok := plos[m.ProgramOutcomeCode]
		if !ok {
			continue
		}
		rows = append(rows, outcome.MappingRow{
			CourseCode:                c.Code,
			CourseName:                c.Name,
			CourseTerm:                c.Term,
			CourseOutcomeCode:         co.Code,
			CourseOutcomeDescription:  co.Description,
			ProgramOutcomeCode:        po.Code,
			ProgramOutcomeDescription: po.Description,
			ProgramOutcomeCategory:    po.Category,
			MasteryLevel:              m.MasteryLevel,
			Weight:                    m.Weight,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.CourseTerm != b.CourseTerm {
			return a.CourseTerm < b.CourseTerm
		}
		if a.CourseCode != b.CourseCode {
			return a.CourseCode < b.CourseCode
		}
		return a.CourseOutcomeCode < b.CourseOutcomeCode
	})
	return rows, nil
}

func (repo *outcomeRepository) GetAssessments(_ context.Context, filter outcome.AssessmentFilter) ([]outcome.AssessmentRecord, error) {
	t := repo.db.assessments
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	recs := make([]outcome.AssessmentRecord, 0, len(t.rows))
	for _, rec := range t.rows {
		if filter.Match(rec) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.TermHalf != b.TermHalf {
			return a.TermHalf > b.TermHalf
		}
		return a.ID < b.ID
	})
	return recs, nil
}

func (repo *outcomeRepository) GetIPOComponents(_ context.Context) ([]outcome.IPOComponent, error) {
	t := repo.db.ipo
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	comps := t.snapshot()
	sort.Slice(comps, func(i, j int) bool {
		if comps[i].Category != comps[j].Category {
			return comps[i].Category < comps[j].Category
		}
		return comps[i].Component < comps[j].Component
	})
	return comps, nil
}

func (repo *outcomeRepository) CreateProgramOutcome(_ context.Context, po outcome.ProgramOutcome) (bool, error) {
	t := repo.db.programOutcomes
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.exists(func(r outcome.ProgramOutcome) bool { return r.Code == po.Code }) {
		return false, nil
	}
	po.ID = t.nextPK()
	t.rows = append(t.rows, po)
	return true, nil
}

func (repo *outcomeRepository) CreateCourse(_ context.Context, c outcome.Course) (bool, error) {
	t := repo.db.courses
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.exists(func(r outcome.Course) bool { return r.Code == c.Code }) {
		return false, nil
	}
	c.ID = t.nextPK()
	t.rows = append(t.rows, c)
	return true, nil
}

func (repo *outcomeRepository) CreateCourseOutcome(_ context.Context, co outcome.CourseOutcome) (bool, error) {
	if !repo.courseExists(co.CourseCode) {
		return false, outcome.ErrUnknownReference
	}

	t := repo.db.courseOutcomes
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.exists(func(r outcome.CourseOutcome) bool { return r.CourseCode == co.CourseCode && r.Code == co.Code }) {
		return false, nil
	}
	co.ID = t.nextPK()
	t.rows = append(t.rows, co)
	return true, nil
}

func (repo *outcomeRepository) CreateMapping(_ context.Context, m outcome.OutcomeMapping) (bool, error) {
	if !repo.courseExists(m.CourseCode) ||
		!repo.courseOutcomeExists(m.CourseCode, m.CourseOutcomeCode) ||
		!repo.programOutcomeExists(m.ProgramOutcomeCode) {
		return false, outcome.ErrUnknownReference
	}

	t := repo.db.mappings
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.exists(func(r outcome.OutcomeMapping) bool {
		return r.CourseCode == m.CourseCode &&
			r.CourseOutcomeCode == m.CourseOutcomeCode &&
			r.ProgramOutcomeCode == m.ProgramOutcomeCode
	}) {
		return false, nil
	}
	m.ID = t.nextPK()
	t.rows = append(t.rows, m)
	return true, nil
}

func (repo *outcomeRepository) CreateAssessment(_ context.Context, rec outcome.AssessmentRecord) (bool, error) {
	t := repo.db.assessments
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec.ID = t.nextPK()
	t.rows = append(t.rows, rec)
	return true, nil
}

func (repo *outcomeRepository) CreateIPOComponent(_ context.Context, ipo outcome.IPOComponent) (bool, error) {
	t := repo.db.ipo
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.exists(func(r outcome.IPOComponent) bool {
		return r.Component == ipo.Component && r.Year == ipo.Year && r.TermHalf == ipo.TermHalf
	}) {
		return false, nil
	}
	ipo.ID = t.nextPK()
	t.rows = append(t.rows, ipo)
	return true, nil
}

func (repo *outcomeRepository) UpdateIPOAchievement(_ context.Context, component string, ach outcome.IPOAchievement) (bool, error) {
	t := repo.db.ipo
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var updated bool
	for i := range t.rows {
		if t.rows[i].Component == component {
			t.rows[i].Actual = ach.Actual
			t.rows[i].Status = ach.Status
			t.rows[i].Note = ach.Note
			updated = true
		}
	}
	return updated, nil
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/outcome"
)

type (
	programOutcomeRow struct {
		ID          int       `db:"id"`
		Code        string    `db:"code"`
		Description string    `db:"description"`
		Category    string    `db:"category"`
		CreatedAt   null.Time `db:"created_at"`
	}

	courseRow struct {
		ID          int         `db:"id"`
		Code        string      `db:"code"`
		Name        string      `db:"name"`
		Term        int         `db:"term"`
		Credits     int         `db:"credits"`
		Description null.String `db:"description"`
		CreatedAt   null.Time   `db:"created_at"`
	}

	courseOutcomeRow struct {
		ID            int         `db:"id"`
		CourseCode    string      `db:"course_code"`
		Code          string      `db:"code"`
		Description   string      `db:"description"`
		TaxonomyLevel null.String `db:"taxonomy_level"`
	}

	assessmentRow struct {
		ID                int       `db:"id"`
		CourseCode        string    `db:"course_code"`
		CourseOutcomeCode string    `db:"course_outcome_code"`
		Year              int       `db:"year"`
		TermHalf          int       `db:"term_half"`
		Kind              string    `db:"kind"`
		MeanScore         float64   `db:"mean_score"`
		Participants      int       `db:"participants"`
		CreatedAt         null.Time `db:"created_at"`
	}

	ipoRow struct {
		ID        int          `db:"id"`
		Component string       `db:"component"`
		Category  string       `db:"category"`
		Weight    int          `db:"weight"`
		Target    float64      `db:"target"`
		Actual    null.Float64 `db:"actual"`
		Status    null.String  `db:"status"`
		Note      null.String  `db:"note"`
		Year      int          `db:"year"`
		TermHalf  int          `db:"term_half"`
	}
)

func nullTime(t time.Time) null.Time {
	return null.NewTime(t.UTC(), !t.IsZero())
}

type outcomeRepository struct {
	db *sqlx.DB
}

var _ outcome.Repository = (*outcomeRepository)(nil) // interface compliance check

func NewOutcomeRepository(db *sqlx.DB) outcome.Repository {
	return &outcomeRepository{db: db}
}

// wrap annotates err; a closed connection pool becomes a shutdown error so the API stops gracefully.
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrConnDone) {
		return core.NewShutdownError(msg + ": " + err.Error())
	}
	return errors.Wrap(err, msg)
}

// insert runs an INSERT, reporting a unique key violation as (false, nil)
// and a foreign key violation as outcome.ErrUnknownReference.
func (repo *outcomeRepository) insert(ctx context.Context, query string, arg interface{}) (bool, error) {
	_, err := repo.db.NamedExecContext(ctx, query, arg)
	if err == nil {
		return true, nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgerrcode.UniqueViolation:
			return false, nil
		case pgerrcode.ForeignKeyViolation:
			return false, outcome.ErrUnknownReference
		}
	}
	return false, wrap(err, "inserting row")
}

func (repo *outcomeRepository) ListProgramOutcomes(ctx context.Context) ([]outcome.ProgramOutcome, error) {
	var rows []programOutcomeRow
	q := "SELECT id, code, description, category, created_at FROM program_outcome" +
		core.OrderBy(core.DBOrdering{Field: "code", Ascending: true})
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, wrap(err, "selecting program outcomes")
	}

	pos := make([]outcome.ProgramOutcome, 0, len(rows))
	for _, r := range rows {
		pos = append(pos, outcome.ProgramOutcome{
			ID:          r.ID,
			Code:        r.Code,
			Description: r.Description,
			Category:    r.Category,
			CreatedAt:   r.CreatedAt.Time,
		})
	}
	return pos, nil
}

func (repo *outcomeRepository) ListCourses(ctx context.Context) ([]outcome.Course, error) {
	var rows []courseRow
	q := "SELECT id, code, name, term, credits, description, created_at FROM course" + core.OrderBy(
		core.DBOrdering{Field: "term", Ascending: true},
		core.DBOrdering{Field: "code", Ascending: true},
	)
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, wrap(err, "selecting courses")
	}

	courses := make([]outcome.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, outcome.Course{
			ID:          r.ID,
			Code:        r.Code,
			Name:        r.Name,
			Term:        r.Term,
			Credits:     r.Credits,
			Description: r.Description.String,
			CreatedAt:   r.CreatedAt.Time,
		})
	}
	return courses, nil
}

func (repo *outcomeRepository) ListCourseOutcomes(ctx context.Context, courseCode string) ([]outcome.CourseOutcome, error) {
	var (
		rows []courseOutcomeRow
		args []interface{}
	)
	q := "SELECT id, course_code, code, description, taxonomy_level FROM course_outcome"
	if courseCode != "" {
		q += " WHERE course_code = $1"
		args = append(args, courseCode)
	}
	q += core.OrderBy(
		core.DBOrdering{Field: "course_code", Ascending: true},
		core.DBOrdering{Field: "code", Ascending: true},
	)
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, wrap(err, "selecting course outcomes")
	}

	cos := make([]outcome.CourseOutcome, 0, len(rows))
	for _, r := range rows {
		cos = append(cos, outcome.CourseOutcome{
			ID:            r.ID,
			CourseCode:    r.CourseCode,
			Code:          r.Code,
			Description:   r.Description,
			TaxonomyLevel: r.TaxonomyLevel.String,
		})
	}
	return cos, nil
}

const matrixQuery = `
SELECT c.code        AS course_code,
       c.name        AS course_name,
       c.term        AS course_term,
       co.code       AS course_outcome_code,
       co.description AS course_outcome_description,
       po.code       AS program_outcome_code,
       po.description AS program_outcome_description,
       po.category   AS program_outcome_category,
       m.mastery_level,
       m.weight
FROM outcome_mapping m
JOIN course c ON c.code = m.course_code
JOIN course_outcome co ON co.course_code = m.course_code AND co.code = m.course_outcome_code
JOIN program_outcome po ON po.code = m.program_outcome_code
ORDER BY c.term, c.code, co.code, m.id`

func (repo *outcomeRepository) GetOutcomeMatrix(ctx context.Context) ([]outcome.MappingRow, error) {
	rows := make([]outcome.MappingRow, 0)
	rs, err := repo.db.QueryxContext(ctx, matrixQuery)
	if err != nil {
		return nil, wrap(err, "selecting outcome matrix")
	}
	defer func() { _ = rs.Close() }()

	for rs.Next() {
		var r struct {
			CourseCode                string  `db:"course_code"`
			CourseName                string  `db:"course_name"`
			CourseTerm                int     `db:"course_term"`
			CourseOutcomeCode         string  `db:"course_outcome_code"`
			CourseOutcomeDescription  string  `db:"course_outcome_description"`
			ProgramOutcomeCode        string  `db:"program_outcome_code"`
			ProgramOutcomeDescription string  `db:"program_outcome_description"`
			ProgramOutcomeCategory    string  `db:"program_outcome_category"`
			MasteryLevel              string  `db:"mastery_level"`
			Weight                    float64 `db:"weight"`
		}
		if err := rs.StructScan(&r); err != nil {
			return nil, wrap(err, "scanning outcome matrix")
		}
		rows = append(rows, outcome.MappingRow(r))
	}
	return rows, wrap(rs.Err(), "iterating outcome matrix")
}

func (repo *outcomeRepository) GetAssessments(ctx context.Context, filter outcome.AssessmentFilter) ([]outcome.AssessmentRecord, error) {
	var (
		rows  []assessmentRow
		conds []string
		args  []interface{}
	)
	if filter.Year != 0 {
		args = append(args, filter.Year)
		conds = append(conds, "year = ?")
	}
	if filter.TermHalf != 0 {
		args = append(args, filter.TermHalf)
		conds = append(conds, "term_half = ?")
	}

	q := "SELECT id, course_code, course_outcome_code, year, term_half, kind, mean_score, participants, created_at FROM assessment"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += core.OrderBy(
		core.DBOrdering{Field: "year"},
		core.DBOrdering{Field: "term_half"},
		core.DBOrdering{Field: "id", Ascending: true},
	)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, wrap(err, "selecting assessments")
	}

	recs := make([]outcome.AssessmentRecord, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, outcome.AssessmentRecord{
			ID:                r.ID,
			CourseCode:        r.CourseCode,
			CourseOutcomeCode: r.CourseOutcomeCode,
			Year:              r.Year,
			TermHalf:          r.TermHalf,
			Kind:              r.Kind,
			MeanScore:         r.MeanScore,
			Participants:      r.Participants,
			CreatedAt:         r.CreatedAt.Time,
		})
	}
	return recs, nil
}

func (repo *outcomeRepository) GetIPOComponents(ctx context.Context) ([]outcome.IPOComponent, error) {
	var rows []ipoRow
	q := "SELECT id, component, category, weight, target, actual, status, note, year, term_half FROM ipo_component" + core.OrderBy(
		core.DBOrdering{Field: "category", Ascending: true},
		core.DBOrdering{Field: "component", Ascending: true},
	)
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, wrap(err, "selecting ipo components")
	}

	comps := make([]outcome.IPOComponent, 0, len(rows))
	for _, r := range rows {
		comps = append(comps, outcome.IPOComponent{
			ID:        r.ID,
			Component: r.Component,
			Category:  r.Category,
			Weight:    r.Weight,
			Target:    r.Target,
			Actual:    r.Actual.Float64,
			Status:    r.Status.String,
			Note:      r.Note.String,
			Year:      r.Year,
			TermHalf:  r.TermHalf,
		})
	}
	return comps, nil
}

func (repo *outcomeRepository) CreateProgramOutcome(ctx context.Context, po outcome.ProgramOutcome) (bool, error) {
	return repo.insert(ctx, `
		INSERT INTO program_outcome (code, description, category, created_at)
		VALUES (:code, :description, :category, COALESCE(:created_at, NOW()))`,
		programOutcomeRow{
			Code:        po.Code,
			Description: po.Description,
			Category:    po.Category,
			CreatedAt:   nullTime(po.CreatedAt),
		})
}

func (repo *outcomeRepository) CreateCourse(ctx context.Context, c outcome.Course) (bool, error) {
	return repo.insert(ctx, `
		INSERT INTO course (code, name, term, credits, description, created_at)
		VALUES (:code, :name, :term, :credits, :description, COALESCE(:created_at, NOW()))`,
		courseRow{
			Code:        c.Code,
			Name:        c.Name,
			Term:        c.Term,
			Credits:     c.Credits,
			Description: null.NewString(c.Description, c.Description != ""),
			CreatedAt:   nullTime(c.CreatedAt),
		})
}

func (repo *outcomeRepository) CreateCourseOutcome(ctx context.Context, co outcome.CourseOutcome) (bool, error) {
	return repo.insert(ctx, `
		INSERT INTO course_outcome (course_code, code, description, taxonomy_level)
		VALUES (:course_code, :code, :description, :taxonomy_level)`,
		courseOutcomeRow{
			CourseCode:    co.CourseCode,
			Code:          co.Code,
			Description:   co.Description,
			TaxonomyLevel: null.NewString(co.TaxonomyLevel, co.TaxonomyLevel != ""),
		})
}

func (repo *outcomeRepository) CreateMapping(ctx context.Context, m outcome.OutcomeMapping) (bool, error) {
	return repo.insert(ctx, `
		INSERT INTO outcome_mapping (course_code, course_outcome_code, program_outcome_code, mastery_level, weight)
		VALUES (:course_code, :course_outcome_code, :program_outcome_code, :mastery_level, :weight)`,
		map[string]interface{}{
			"course_code":          m.CourseCode,
			"course_outcome_code":  m.CourseOutcomeCode,
			"program_outcome_code": m.ProgramOutcomeCode,
			"mastery_level":        m.MasteryLevel,
			"weight":               m.Weight,
		})
}

func (repo *outcomeRepository) CreateAssessment(ctx context.Context, rec outcome.AssessmentRecord) (bool, error) {
	return repo.insert(ctx, `
		INSERT INTO assessment (course_code, course_outcome_code, year, term_half, kind, mean_score, participants, created_at)
		VALUES (:course_code, :course_outcome_code, :year, :term_half, :kind, :mean_score, :participants, COALESCE(:created_at, NOW()))`,
		assessmentRow{
			CourseCode:        rec.CourseCode,
			CourseOutcomeCode: rec.CourseOutcomeCode,
			Year:              rec.Year,
			TermHalf:          rec.TermHalf,
			Kind:              rec.Kind,
			MeanScore:         rec.MeanScore,
			Participants:      rec.Participants,
			CreatedAt:         nullTime(rec.CreatedAt),
		})
}

func (repo *outcomeRepository) CreateIPOComponent(ctx context.Context, ipo outcome.IPOComponent) (bool, error) {
	return repo.insert(ctx, `
		INSERT INTO ipo_component (component, category, weight, target, actual, status, note, year, term_half)
		VALUES (:component, :category, :weight, :target, :actual, :status, :note, :year, :term_half)`,
		ipoRow{
			Component: ipo.Component,
			Category:  ipo.Category,
			Weight:    ipo.Weight,
			Target:    ipo.Target,
			Actual:    null.Float64From(ipo.Actual),
			Status:    null.NewString(ipo.Status, ipo.Status != ""),
			Note:      null.NewString(ipo.Note, ipo.Note != ""),
			Year:      ipo.Year,
			TermHalf:  ipo.TermHalf,
		})
}

func (repo *outcomeRepository) UpdateIPOAchievement(ctx context.Context, component string, ach outcome.IPOAchievement) (bool, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE ipo_component SET actual = $1, status = $2, note = $3 WHERE component = $4",
		ach.Actual,
		null.NewString(ach.Status, ach.Status != ""),
		null.NewString(ach.Note, ach.Note != ""),
		component,
	)
	if err != nil {
		return false, wrap(err, "updating ipo achievement")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap(err, "counting updated ipo components")
	}
	return n > 0, nil
}

package importer

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/outcome"
)

const sectionCSV = "csv"

// AssessmentColumns are the required CSV header columns, in any order.
var AssessmentColumns = []string{
	"course_code", "course_outcome_code", "year", "term_half", "kind", "mean_score", "participants",
}

var errMissingHeader = errors.New("missing csv header")

func columnIndexes(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(core.CleanString(col))] = i
	}
	var missing []string
	for _, col := range AssessmentColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewValidationError(errors.Errorf("missing csv columns: %s", strings.Join(missing, ", ")))
	}
	return idx, nil
}

func parseAssessment(record []string, idx map[string]int) (*outcome.NewAssessment, error) {
	get := func(col string) string {
		if i := idx[col]; i < len(record) {
			return core.CleanString(record[i])
		}
		return ""
	}

	var flds []core.FieldError
	atoi := func(col string) int {
		n, err := strconv.Atoi(get(col))
		if err != nil {
			flds = append(flds, core.FieldError{Field: col, Error: "must be an integer"})
		}
		return n
	}

	na := &outcome.NewAssessment{
		CourseCode:        get("course_code"),
		CourseOutcomeCode: get("course_outcome_code"),
		Year:              atoi("year"),
		TermHalf:          atoi("term_half"),
		Kind:              get("kind"),
		Participants:      atoi("participants"),
	}
	score, err := strconv.ParseFloat(get("mean_score"), 64)
	if err != nil {
		flds = append(flds, core.FieldError{Field: "mean_score", Error: "must be a number"})
	}
	na.MeanScore = score

	if len(flds) > 0 {
		msgs := make([]string, len(flds))
		for i, f := range flds {
			msgs[i] = f.Field + ": " + f.Error
		}
		return nil, core.NewValidationError(errors.New(strings.Join(msgs, "; ")), flds...)
	}
	return na, nil
}

// ImportAssessmentsCSV creates one assessment record per CSV row; invalid rows are reported and skipped.
func (imp *Importer) ImportAssessmentsCSV(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Result{}, core.NewValidationError(errMissingHeader)
	}
	if err != nil {
		return Result{}, errors.Wrap(err, "reading csv header")
	}
	idx, err := columnIndexes(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, errors.Wrapf(err, "reading csv line %d", line)
		}

		var ok bool
		na, err := parseAssessment(record, idx)
		if err == nil {
			if err = na.Validate(imp.validate); err == nil {
				_, ok, err = imp.svc.CreateAssessment(ctx, *na)
			}
		}
		if err := imp.record(&res, sectionCSV, line, ok, err); err != nil {
			return res, err
		}
	}
	return res, nil
}

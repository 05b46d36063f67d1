package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/analytics"
	"github.com/trezcool/obe/core/outcome"
)

var (
	yearParam    = "year"
	termParam    = "term"
	horizonParam = "horizon"
	courseParam  = "course"
)

// queryInt reads an integer query param; absent params yield `def`.
func queryInt(ctx echo.Context, name string, def int) (int, error) {
	val := core.CleanString(ctx.QueryParam(name))
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be an integer"})
	}
	return n, nil
}

type AssessmentQuery struct {
	outcome.AssessmentFilter
}

func (q *AssessmentQuery) Bind(ctx echo.Context) error {
	var err error
	if q.Year, err = queryInt(ctx, yearParam, 0); err != nil {
		return err
	}
	if q.TermHalf, err = queryInt(ctx, termParam, 0); err != nil {
		return err
	}
	if q.TermHalf != 0 && q.TermHalf != 1 && q.TermHalf != 2 {
		return core.NewValidationError(nil, core.FieldError{Field: termParam, Error: "must be 1 or 2"})
	}
	return nil
}

type HorizonQuery struct {
	Horizon int
}

// Bind defaults to the configured horizon and rejects values above the configured maximum.
func (q *HorizonQuery) Bind(ctx echo.Context, conf core.AnalyticsConfig) error {
	var err error
	if q.Horizon, err = queryInt(ctx, horizonParam, conf.DefaultHorizon); err != nil {
		return err
	}
	if q.Horizon < 1 || (conf.MaxHorizon > 0 && q.Horizon > conf.MaxHorizon) {
		return analytics.ErrInvalidHorizon
	}
	return nil
}

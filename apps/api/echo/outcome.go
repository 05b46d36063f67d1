package echoapi

import (
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/outcome"
)

type outcomeApi struct {
	svc      outcome.ServiceInterface
	validate *validator.Validate
}

func registerOutcomeAPI(g *echo.Group, svc outcome.ServiceInterface, validate *validator.Validate) {
	api := outcomeApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/program-outcomes", api.listProgramOutcomes)
	g.POST("/program-outcomes", api.createProgramOutcome)
	g.GET("/courses", api.listCourses)
	g.POST("/courses", api.createCourse)
	g.GET("/course-outcomes", api.listCourseOutcomes)
	g.POST("/course-outcomes", api.createCourseOutcome)
	g.GET("/mappings", api.outcomeMatrix)
	g.POST("/mappings", api.createMapping)
	g.GET("/assessments", api.listAssessments)
	g.POST("/assessments", api.createAssessment)
	g.GET("/ipo", api.listIPOComponents)
	g.POST("/ipo", api.createIPOComponent)
	g.PUT("/ipo/:component", api.updateIPOAchievement)
}

// Handlers

func (api *outcomeApi) listProgramOutcomes(ctx echo.Context) error {
	pos, err := api.svc.ListProgramOutcomes(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing program outcomes")
	}
	return ctx.JSON(http.StatusOK, pos)
}

func (api *outcomeApi) createProgramOutcome(ctx echo.Context) error {
	var data outcome.NewProgramOutcome
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgramOutcome")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	po, ok, err := api.svc.CreateProgramOutcome(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating program outcome")
	}
	if !ok {
		return newConflictError("program outcome", po.Code)
	}
	return ctx.JSON(http.StatusCreated, po)
}

func (api *outcomeApi) listCourses(ctx echo.Context) error {
	courses, err := api.svc.ListCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *outcomeApi) createCourse(ctx echo.Context) error {
	var data outcome.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, ok, err := api.svc.CreateCourse(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	if !ok {
		return newConflictError("course", c.Code)
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *outcomeApi) listCourseOutcomes(ctx echo.Context) error {
	cos, err := api.svc.ListCourseOutcomes(ctx.Request().Context(), core.CleanCode(ctx.QueryParam(courseParam)))
	if err != nil {
		return errors.Wrap(err, "listing course outcomes")
	}
	return ctx.JSON(http.StatusOK, cos)
}

func (api *outcomeApi) createCourseOutcome(ctx echo.Context) error {
	var data outcome.NewCourseOutcome
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourseOutcome")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	co, ok, err := api.svc.CreateCourseOutcome(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course outcome")
	}
	if !ok {
		return newConflictError("course outcome", co.CourseCode+"/"+co.Code)
	}
	return ctx.JSON(http.StatusCreated, co)
}

func (api *outcomeApi) outcomeMatrix(ctx echo.Context) error {
	rows, err := api.svc.GetOutcomeMatrix(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting outcome matrix")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *outcomeApi) createMapping(ctx echo.Context) error {
	var data outcome.NewOutcomeMapping
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOutcomeMapping")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	m, ok, err := api.svc.CreateMapping(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating mapping")
	}
	if !ok {
		return newConflictError("mapping", m.CourseCode+"/"+m.CourseOutcomeCode+" -> "+m.ProgramOutcomeCode)
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *outcomeApi) listAssessments(ctx echo.Context) error {
	var query AssessmentQuery
	if err := query.Bind(ctx); err != nil {
		return err
	}

	recs, err := api.svc.GetAssessments(ctx.Request().Context(), query.AssessmentFilter)
	if err != nil {
		return errors.Wrap(err, "getting assessments")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *outcomeApi) createAssessment(ctx echo.Context) error {
	var data outcome.NewAssessment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssessment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, _, err := api.svc.CreateAssessment(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assessment")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *outcomeApi) listIPOComponents(ctx echo.Context) error {
	comps, err := api.svc.GetIPOComponents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting ipo components")
	}
	return ctx.JSON(http.StatusOK, comps)
}

func (api *outcomeApi) createIPOComponent(ctx echo.Context) error {
	var data outcome.NewIPOComponent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewIPOComponent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ipo, ok, err := api.svc.CreateIPOComponent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating ipo component")
	}
	if !ok {
		return newConflictError("ipo component", ipo.Component)
	}
	return ctx.JSON(http.StatusCreated, ipo)
}

func (api *outcomeApi) updateIPOAchievement(ctx echo.Context) error {
	var data outcome.IPOAchievement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to IPOAchievement")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	component, err := url.PathUnescape(ctx.Param("component"))
	if err != nil {
		return echo.ErrNotFound
	}
	if err := api.svc.UpdateIPOAchievement(ctx.Request().Context(), core.CleanString(component), data); err != nil {
		return errors.Wrap(err, "updating ipo achievement")
	}
	return ctx.NoContent(http.StatusNoContent)
}

package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/analytics"
)

type (
	analyticsApi struct {
		svc      *analytics.Service
		conf     core.AnalyticsConfig
		validate *validator.Validate
	}

	ReadinessRequest struct {
		Scores []analytics.OutcomeScore `json:"scores" validate:"required,min=1,dive"`
	}
)

func (r *ReadinessRequest) Validate(validate *validator.Validate) error {
	for i := range r.Scores {
		r.Scores[i].Outcome = core.CleanCode(r.Scores[i].Outcome)
	}
	return validate.Struct(r)
}

func registerAnalyticsAPI(
	g *echo.Group,
	svc *analytics.Service,
	conf core.AnalyticsConfig,
	validate *validator.Validate,
) {
	api := analyticsApi{
		svc:      svc,
		conf:     conf,
		validate: validate,
	}

	g.GET("/dashboard", api.dashboard)

	ag := g.Group("/analytics")
	ag.GET("/series", api.series)
	ag.GET("/trend/:code", api.trend)
	ag.GET("/trends", api.trends)
	ag.GET("/risk", api.risk)
	ag.GET("/clusters", api.clusters)
	ag.GET("/achievement", api.achievement)
	ag.GET("/achievement/categories", api.achievementByCategory)
	ag.POST("/readiness", api.readiness)
}

// Handlers

func (api *analyticsApi) dashboard(ctx echo.Context) error {
	dash, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *analyticsApi) series(ctx echo.Context) error {
	samples, err := api.svc.AggregateOutcomeSeries(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "aggregating outcome series")
	}
	if samples == nil {
		samples = []analytics.OutcomePeriodSample{}
	}
	return ctx.JSON(http.StatusOK, samples)
}

func (api *analyticsApi) trend(ctx echo.Context) error {
	var query HorizonQuery
	if err := query.Bind(ctx, api.conf); err != nil {
		return err
	}

	res, err := api.svc.PredictTrend(ctx.Request().Context(), ctx.Param("code"), query.Horizon)
	if err != nil {
		return errors.Wrap(err, "predicting trend")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *analyticsApi) trends(ctx echo.Context) error {
	var query HorizonQuery
	if err := query.Bind(ctx, api.conf); err != nil {
		return err
	}

	results, err := api.svc.PredictTrends(ctx.Request().Context(), query.Horizon)
	if err != nil {
		return errors.Wrap(err, "predicting trends")
	}
	if results == nil {
		results = []analytics.TrendResult{}
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *analyticsApi) risk(ctx echo.Context) error {
	rows, err := api.svc.AssessRisk(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "assessing risk")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *analyticsApi) clusters(ctx echo.Context) error {
	rows, err := api.svc.ClusterCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "clustering courses")
	}
	if rows == nil {
		rows = []analytics.ClusterRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *analyticsApi) achievement(ctx echo.Context) error {
	rows, err := api.svc.OutcomeAchievement(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing outcome achievement")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *analyticsApi) achievementByCategory(ctx echo.Context) error {
	rows, err := api.svc.AchievementByCategory(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing category achievement")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *analyticsApi) readiness(ctx echo.Context) error {
	var data ReadinessRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReadinessRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.GraduationReadiness(data.Scores))
}

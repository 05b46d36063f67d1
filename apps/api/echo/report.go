package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/obe/core/report"
)

type reportApi struct {
	gen *report.Generator
}

func registerReportAPI(g *echo.Group, gen *report.Generator) {
	api := reportApi{gen: gen}

	rg := g.Group("/reports")
	rg.GET("/excel", api.download(report.FormatExcel))
	rg.GET("/pdf", api.download(report.FormatPDF))
}

// download renders the report in memory so that a failure still yields a JSON error.
func (api *reportApi) download(format string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		contentType, err := report.ContentType(format)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := api.gen.Write(ctx.Request().Context(), format, &buf); err != nil {
			return errors.Wrapf(err, "generating %s report", format)
		}

		filename := report.Filename(format, api.gen.Now())
		ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return ctx.Blob(http.StatusOK, contentType, buf.Bytes())
	}
}

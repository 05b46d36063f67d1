package echoapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/obe/core"
)

const requestLogFormat = `{"time":"${time_rfc3339}","id":"${id}","method":"${method}","uri":"${uri}",` +
	`"status":${status},"latency":"${latency_human}","bytes_out":${bytes_out}}` + "\n"

// requestIDMiddleware tags every request (and its response) with a uuid, unless the client sent one.
func requestIDMiddleware() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

func requestInfo(ctx echo.Context) core.RequestInfo {
	id := ctx.Request().Header.Get(echo.HeaderXRequestID)
	if id == "" {
		id = ctx.Response().Header().Get(echo.HeaderXRequestID)
	}
	return core.RequestInfo{
		ID:     id,
		Method: ctx.Request().Method,
		Path:   ctx.Request().URL.Path,
	}
}

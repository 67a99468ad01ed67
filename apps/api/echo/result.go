package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campushq/campus/core/result"
)

type resultApi struct {
	svc      *result.Service
	validate *validator.Validate
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *result.Service, validate *validator.Validate) {
	api := resultApi{svc: svc, validate: validate}

	rg := g.Group("/results", jwt)
	rg.POST("", api.upload, adminMiddleware())
	rg.GET("/:rollNumber", api.queryByRollNumber)
}

// upload accepts a term result, derives its grades and stores it. The
// uploader is taken from the token, never the payload.
func (api *resultApi) upload(ctx echo.Context) error {
	var data result.NewResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	res, err := api.svc.Upload(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *resultApi) queryByRollNumber(ctx echo.Context) error {
	results, err := api.svc.QueryByRollNumber(ctx.Request().Context(), ctx.Param("rollNumber"))
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	return ctx.JSON(http.StatusOK, results)
}

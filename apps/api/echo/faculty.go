package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campushq/campus/core/faculty"
)

type facultyApi struct {
	svc      *faculty.Service
	validate *validator.Validate
}

func registerFacultyAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *faculty.Service, validate *validator.Validate) {
	api := facultyApi{svc: svc, validate: validate}

	fg := g.Group("/faculty", jwt, adminMiddleware())
	fg.POST("", api.create)
	fg.GET("", api.query)
	fg.GET("/:id", api.retrieve)
	fg.PUT("/:id", api.update)
	fg.DELETE("/:id", api.destroy)
}

func (api *facultyApi) create(ctx echo.Context) error {
	var data faculty.NewFaculty
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFaculty")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	fac, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, fac)
}

func (api *facultyApi) query(ctx echo.Context) error {
	members, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying faculty")
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *facultyApi) retrieve(ctx echo.Context) error {
	fac, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, fac)
}

func (api *facultyApi) update(ctx echo.Context) error {
	var data faculty.UpdateFaculty
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFaculty")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	fac, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, fac)
}

func (api *facultyApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campushq/campus/core/document"
	filesvc "github.com/campushq/campus/services/filestore"
)

type documentApi struct {
	svc      *document.Service
	store    *filesvc.LocalStore
	validate *validator.Validate
}

func registerDocumentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *document.Service, store *filesvc.LocalStore, validate *validator.Validate) {
	api := documentApi{svc: svc, store: store, validate: validate}

	dg := g.Group("/documents", jwt)
	dg.POST("", api.create, adminMiddleware())
	dg.GET("", api.query)
	dg.GET("/:id", api.retrieve)
	dg.PUT("/:id", api.update, adminMiddleware())
	dg.DELETE("/:id", api.destroy, adminMiddleware())

	g.POST("/uploads", api.upload, jwt, adminMiddleware())
}

func (api *documentApi) create(ctx echo.Context) error {
	var data document.NewDocument
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDocument")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	doc, err := api.svc.Add(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) query(ctx echo.Context) error {
	filter := document.QueryFilter{
		Type:   ctx.QueryParam("type"),
		Search: ctx.QueryParam("search"),
	}
	if page, err := strconv.Atoi(ctx.QueryParam("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(ctx.QueryParam("limit")); err == nil {
		filter.Limit = limit
	}

	page, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "filtering documents")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *documentApi) retrieve(ctx echo.Context) error {
	doc, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) update(ctx echo.Context) error {
	var data document.UpdateDocument
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDocument")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	doc, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// upload stores one multipart file and returns its public URL; the document
// record referencing it is created separately.
func (api *documentApi) upload(ctx echo.Context) error {
	docType := ctx.FormValue("type")
	if docType == "" {
		docType = document.TypeDocument
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return errors.Wrap(err, "reading multipart file")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "opening multipart file")
	}
	defer func() { _ = src.Close() }()

	url, err := api.store.Save(docType, fileHeader.Filename, fileHeader.Header.Get(echo.HeaderContentType), src)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"url": url})
}

package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classflow/core/category"
)

type categoryApi struct {
	svc      category.Service
	validate *validator.Validate
}

func registerCategoryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc category.Service, validate *validator.Validate) {
	api := categoryApi{
		svc:      svc,
		validate: validate,
	}

	cg := g.Group("/categories", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *categoryApi) create(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data category.NewCategory
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCategory")
	}
	if err := data.Validate(ctx.Request().Context(), userID, api.validate, api.svc); err != nil {
		return err
	}

	cat, err := api.svc.Create(ctx.Request().Context(), userID, data)
	if err != nil {
		return errors.Wrap(err, "creating category")
	}
	return respondData(ctx, http.StatusCreated, cat)
}

func (api *categoryApi) query(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	cats, err := api.svc.QueryAll(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}
	if cats == nil {
		cats = []category.Category{}
	}
	return respondList(ctx, cats, len(cats))
}

func (api *categoryApi) retrieve(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	cat, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, cat)
}

func (api *categoryApi) update(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return err
	}

	var data category.UpdateCategory
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCategory")
	}
	if err := data.Validate(ctx.Request().Context(), orig, api.validate, api.svc); err != nil {
		return err
	}

	cat, err := api.svc.Update(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating category")
	}
	return respondData(ctx, http.StatusOK, cat)
}

func (api *categoryApi) destroy(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), userID); err != nil {
		return err
	}
	return respondMessage(ctx, "category deleted")
}

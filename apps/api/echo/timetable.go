package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classflow/core/timetable"
)

type timetableApi struct {
	svc      timetable.Service
	validate *validator.Validate
}

func registerTimetableAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc timetable.Service, validate *validator.Validate) {
	api := timetableApi{
		svc:      svc,
		validate: validate,
	}

	tg := g.Group("/timetable", jwt)
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/day/:dayOfWeek", api.queryByDay)
	tg.GET("/date/:date", api.resolveDate)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *timetableApi) create(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data timetable.NewTimetableEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTimetableEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	entry, err := api.svc.Create(ctx.Request().Context(), userID, data)
	if err != nil {
		return errors.Wrap(err, "creating timetable entry")
	}
	return respondData(ctx, http.StatusCreated, entry)
}

func (api *timetableApi) query(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	entries, err := api.svc.QueryAll(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying timetable entries")
	}
	return respondEntryList(ctx, entries)
}

func (api *timetableApi) queryByDay(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	dayOfWeek, err := parseDayOfWeekParam(ctx)
	if err != nil {
		return err
	}

	entries, err := api.svc.QueryByDay(ctx.Request().Context(), userID, dayOfWeek)
	if err != nil {
		return errors.Wrap(err, "querying timetable entries by day")
	}
	return respondEntryList(ctx, entries)
}

// resolveDate expands the weekly templates into the occurrences active on
// the given calendar date.
func (api *timetableApi) resolveDate(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	date, err := parseDateParam("date", ctx.Param("date"))
	if err != nil {
		return err
	}

	entries, err := api.svc.ResolveForDate(ctx.Request().Context(), userID, date)
	if err != nil {
		return errors.Wrap(err, "resolving timetable date")
	}
	return respondEntryList(ctx, entries)
}

func (api *timetableApi) retrieve(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	entry, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, entry)
}

func (api *timetableApi) update(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return err
	}

	var data timetable.UpdateTimetableEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTimetableEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	entry, err := api.svc.Update(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating timetable entry")
	}
	return respondData(ctx, http.StatusOK, entry)
}

func (api *timetableApi) destroy(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), userID); err != nil {
		return err
	}
	return respondMessage(ctx, "timetable entry deleted")
}

func respondEntryList(ctx echo.Context, entries []timetable.TimetableEntry) error {
	if entries == nil {
		entries = []timetable.TimetableEntry{}
	}
	return respondList(ctx, entries, len(entries))
}

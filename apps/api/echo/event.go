package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classflow/core/event"
)

type eventApi struct {
	svc      event.Service
	validate *validator.Validate
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc event.Service, validate *validator.Validate) {
	api := eventApi{
		svc:      svc,
		validate: validate,
	}

	eg := g.Group("/events", jwt)
	eg.GET("", api.query)
	eg.POST("", api.create)
	eg.GET("/range", api.queryRange)
	eg.GET("/upcoming", api.queryUpcoming)
	eg.GET("/stats/today", api.todayStats)
	eg.GET("/counts/:date", api.dayCounts)
	eg.GET("/day/:date", api.queryDay)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id", api.update)
	eg.PATCH("/:id/complete", api.toggleComplete)
	eg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *eventApi) create(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	evt, err := api.svc.Create(ctx.Request().Context(), userID, data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return respondData(ctx, http.StatusCreated, evt)
}

func (api *eventApi) query(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	filter, err := bindEventFilter(ctx)
	if err != nil {
		return err
	}
	return api.respondEvents(ctx, userID, filter)
}

// queryRange is the strict variant of query: both range bounds are required.
func (api *eventApi) queryRange(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	start, end, err := bindDateRange(ctx, true /* required */)
	if err != nil {
		return err
	}
	return api.respondEvents(ctx, userID, &event.QueryFilter{StartDate: start, EndDate: end})
}

func (api *eventApi) queryDay(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	date, err := parseDateParam("date", ctx.Param("date"))
	if err != nil {
		return err
	}

	events, err := api.svc.QueryDay(ctx.Request().Context(), userID, date)
	if err != nil {
		return errors.Wrap(err, "querying day events")
	}
	return respondEventList(ctx, events)
}

func (api *eventApi) queryUpcoming(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	limit, err := parseLimitParam(ctx)
	if err != nil {
		return err
	}

	events, err := api.svc.QueryUpcoming(ctx.Request().Context(), userID, limit)
	if err != nil {
		return errors.Wrap(err, "querying upcoming events")
	}
	return respondEventList(ctx, events)
}

func (api *eventApi) todayStats(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	stats, err := api.svc.TodayStats(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "computing today stats")
	}
	return respondData(ctx, http.StatusOK, stats)
}

func (api *eventApi) dayCounts(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	date, err := parseDateParam("date", ctx.Param("date"))
	if err != nil {
		return err
	}

	counts, err := api.svc.DayCounts(ctx.Request().Context(), userID, date)
	if err != nil {
		return errors.Wrap(err, "computing day counts")
	}
	return respondData(ctx, http.StatusOK, counts)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	evt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, evt)
}

func (api *eventApi) update(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return err
	}

	var data event.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	evt, err := api.svc.Update(ctx.Request().Context(), orig, data)
	if err != nil {
		return errors.Wrap(err, "updating event")
	}
	return respondData(ctx, http.StatusOK, evt)
}

func (api *eventApi) toggleComplete(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	evt, err := api.svc.ToggleComplete(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, evt)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), userID); err != nil {
		return err
	}
	return respondMessage(ctx, "event deleted")
}

func (api *eventApi) respondEvents(ctx echo.Context, userID string, filter *event.QueryFilter) error {
	events, err := api.svc.Query(ctx.Request().Context(), userID, filter)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return respondEventList(ctx, events)
}

func respondEventList(ctx echo.Context, events []event.Event) error {
	if events == nil {
		events = []event.Event{}
	}
	return respondList(ctx, events, len(events))
}

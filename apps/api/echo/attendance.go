package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classflow/core/attendance"
)

type attendanceApi struct {
	svc      attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc attendance.Service, validate *validator.Validate) {
	api := attendanceApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.query)
	ag.POST("", api.mark)
	ag.GET("/stats", api.allStats)
	ag.GET("/stats/:courseName", api.courseStats)
	ag.GET("/course/:courseName", api.queryByCourse)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

// Handlers

// mark upserts on (user, course, date): 201 when a new record is created,
// 200 when an existing one is overwritten.
func (api *attendanceApi) mark(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data attendance.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, created, err := api.svc.Mark(ctx.Request().Context(), userID, data)
	if err != nil {
		return err
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return respondData(ctx, code, rec)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	filter, err := bindAttendanceFilter(ctx)
	if err != nil {
		return err
	}

	records, err := api.svc.Query(ctx.Request().Context(), userID, filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	return respondRecordList(ctx, records)
}

func (api *attendanceApi) queryByCourse(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	records, err := api.svc.QueryByCourse(ctx.Request().Context(), userID, ctx.Param("courseName"))
	if err != nil {
		return errors.Wrap(err, "querying course attendance records")
	}
	return respondRecordList(ctx, records)
}

func (api *attendanceApi) allStats(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	stats, err := api.svc.AllStats(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "computing attendance stats")
	}
	if stats == nil {
		stats = []attendance.CourseStats{}
	}
	return respondData(ctx, http.StatusOK, stats)
}

func (api *attendanceApi) courseStats(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	stats, err := api.svc.CourseStats(ctx.Request().Context(), userID, ctx.Param("courseName"))
	if err != nil {
		return errors.Wrap(err, "computing course attendance stats")
	}
	return respondData(ctx, http.StatusOK, stats)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), userID)
	if err != nil {
		return err
	}

	var data attendance.UpdateAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAttendance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Update(ctx.Request().Context(), orig, data)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusOK, rec)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), userID); err != nil {
		return err
	}
	return respondMessage(ctx, "attendance record deleted")
}

func respondRecordList(ctx echo.Context, records []attendance.AttendanceRecord) error {
	if records == nil {
		records = []attendance.AttendanceRecord{}
	}
	return respondList(ctx, records, len(records))
}

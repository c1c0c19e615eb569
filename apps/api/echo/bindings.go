package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classflow/core"
	"github.com/trezcool/classflow/core/attendance"
	"github.com/trezcool/classflow/core/event"
)

const (
	dateLayout           = "2006-01-02"
	defaultUpcomingLimit = 10
)

type (
	// dataResponse is the success envelope; Count is only set on listings.
	dataResponse struct {
		Success bool        `json:"success"`
		Count   *int        `json:"count,omitempty"`
		Data    interface{} `json:"data,omitempty"`
		Message string      `json:"message,omitempty"`
	}

	errorResponse struct {
		Success bool        `json:"success"`
		Message interface{} `json:"message"`
	}
)

func respondData(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, dataResponse{Success: true, Data: data})
}

func respondList(ctx echo.Context, data interface{}, count int) error {
	return ctx.JSON(http.StatusOK, dataResponse{Success: true, Count: &count, Data: data})
}

func respondMessage(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusOK, dataResponse{Success: true, Message: message})
}

// parseDateParam parses a "2006-01-02" path or query value.
func parseDateParam(name, val string) (time.Time, error) {
	date, err := time.Parse(dateLayout, val)
	if err != nil {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: "invalid date, expected YYYY-MM-DD"})
	}
	return date, nil
}

// bindDateRange reads startDate/endDate query params. Both must be provided
// to activate the range; with required set, providing fewer than two is a
// validation error, otherwise a partial pair is ignored.
func bindDateRange(ctx echo.Context, required bool) (start, end time.Time, err error) {
	startStr := ctx.QueryParam("startDate")
	endStr := ctx.QueryParam("endDate")

	if startStr == "" || endStr == "" {
		if required {
			return start, end, core.NewValidationError(errors.New("startDate and endDate are required"))
		}
		return start, end, nil
	}

	if start, err = parseDateParam("startDate", startStr); err != nil {
		return start, end, err
	}
	if end, err = parseDateParam("endDate", endStr); err != nil {
		return start, end, err
	}
	// make the range inclusive of the whole end day
	_, end = event.DayWindow(end)
	return start, end, nil
}

func bindEventFilter(ctx echo.Context) (*event.QueryFilter, error) {
	filter := &event.QueryFilter{
		Classification: ctx.QueryParam("classification"),
		CategoryID:     ctx.QueryParam("categoryId"),
	}
	// the literal "true" means completed; any other non-empty value means not
	if val := ctx.QueryParam("isCompleted"); val != "" {
		isCompleted := val == "true"
		filter.IsCompleted = &isCompleted
	}

	start, end, err := bindDateRange(ctx, false)
	if err != nil {
		return nil, err
	}
	filter.StartDate, filter.EndDate = start, end
	return filter, nil
}

func bindAttendanceFilter(ctx echo.Context) (*attendance.QueryFilter, error) {
	filter := &attendance.QueryFilter{CourseName: ctx.QueryParam("courseName")}

	start, end, err := bindDateRange(ctx, false)
	if err != nil {
		return nil, err
	}
	filter.StartDate, filter.EndDate = start, end
	return filter, nil
}

func parseLimitParam(ctx echo.Context) (int, error) {
	val := ctx.QueryParam("limit")
	if val == "" {
		return defaultUpcomingLimit, nil
	}
	limit, err := strconv.Atoi(val)
	if err != nil || limit < 1 {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "limit", Error: "invalid limit"})
	}
	return limit, nil
}

func parseDayOfWeekParam(ctx echo.Context) (int, error) {
	day, err := strconv.Atoi(ctx.Param("dayOfWeek"))
	if err != nil || day < 1 || day > 7 {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "dayOfWeek", Error: "day of week must be between 1 (Monday) and 7 (Sunday)"})
	}
	return day, nil
}

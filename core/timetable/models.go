package timetable

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classflow/core"
	"github.com/trezcool/classflow/core/category"
)

// TimetableEntry is a recurring weekly class slot, not a single occurrence.
// DaysOfWeek uses Monday=1 .. Sunday=7.
type TimetableEntry struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	CourseName    string        `json:"courseName"`
	CourseCode    string        `json:"courseCode,omitempty"`
	Instructor    string        `json:"instructor,omitempty"`
	Room          string        `json:"room,omitempty"`
	DaysOfWeek    []int         `json:"daysOfWeek"`
	StartTime     string        `json:"startTime"` // "HH:mm"
	EndTime       string        `json:"endTime"`   // "HH:mm"
	CategoryID    string        `json:"categoryId,omitempty"`
	Category      *category.Ref `json:"category,omitempty"`
	Color         string        `json:"color,omitempty"`
	SemesterStart *time.Time    `json:"semesterStart,omitempty"`
	SemesterEnd   *time.Time    `json:"semesterEnd,omitempty"`
	ExcludedDates []string      `json:"excludedDates,omitempty"` // ISO date strings
	CreatedAt     time.Time     `json:"createdAt"`               // UTC
	UpdatedAt     time.Time     `json:"updatedAt"`               // UTC
}

// RecursOn reports whether the entry's weekly template includes the given
// day of week. An empty DaysOfWeek never recurs.
func (e TimetableEntry) RecursOn(dayOfWeek int) bool {
	for _, day := range e.DaysOfWeek {
		if day == dayOfWeek {
			return true
		}
	}
	return false
}

// NewTimetableEntry contains information needed to create a new TimetableEntry.
type NewTimetableEntry struct {
	CourseName    string     `json:"courseName" validate:"required"`
	CourseCode    string     `json:"courseCode"`
	Instructor    string     `json:"instructor"`
	Room          string     `json:"room"`
	DaysOfWeek    []int      `json:"daysOfWeek" validate:"required,min=1,dive,min=1,max=7"`
	StartTime     string     `json:"startTime" validate:"required,hhmm"`
	EndTime       string     `json:"endTime" validate:"required,hhmm"`
	CategoryID    string     `json:"categoryId"`
	Color         string     `json:"color"`
	SemesterStart *time.Time `json:"semesterStart"`
	SemesterEnd   *time.Time `json:"semesterEnd"`
	ExcludedDates []string   `json:"excludedDates" validate:"omitempty,dive,isodate"`
}

func (ne *NewTimetableEntry) Validate(validate *validator.Validate) error {
	ne.CourseName = core.CleanString(ne.CourseName)
	ne.CourseCode = core.CleanString(ne.CourseCode)
	ne.Instructor = core.CleanString(ne.Instructor)
	ne.Room = core.CleanString(ne.Room)
	return validate.Struct(ne)
}

// UpdateTimetableEntry defines what information may be provided to modify
// an existing TimetableEntry. Nil fields leave the original values untouched.
type UpdateTimetableEntry struct {
	CourseName    *string    `json:"courseName"`
	CourseCode    *string    `json:"courseCode"`
	Instructor    *string    `json:"instructor"`
	Room          *string    `json:"room"`
	DaysOfWeek    []int      `json:"daysOfWeek" validate:"omitempty,min=1,dive,min=1,max=7"`
	StartTime     *string    `json:"startTime" validate:"omitempty,hhmm"`
	EndTime       *string    `json:"endTime" validate:"omitempty,hhmm"`
	CategoryID    *string    `json:"categoryId"`
	Color         *string    `json:"color"`
	SemesterStart *time.Time `json:"semesterStart"`
	SemesterEnd   *time.Time `json:"semesterEnd"`
	ExcludedDates []string   `json:"excludedDates" validate:"omitempty,dive,isodate"`
}

func (ue *UpdateTimetableEntry) Validate(validate *validator.Validate) error {
	if ue.CourseName != nil {
		name := core.CleanString(*ue.CourseName)
		ue.CourseName = &name
	}
	return validate.Struct(ue)
}

// Merge applies the set fields onto orig.
func (ue UpdateTimetableEntry) Merge(orig TimetableEntry) TimetableEntry {
	if ue.CourseName != nil {
		orig.CourseName = *ue.CourseName
	}
	if ue.CourseCode != nil {
		orig.CourseCode = *ue.CourseCode
	}
	if ue.Instructor != nil {
		orig.Instructor = *ue.Instructor
	}
	if ue.Room != nil {
		orig.Room = *ue.Room
	}
	if ue.DaysOfWeek != nil {
		orig.DaysOfWeek = ue.DaysOfWeek
	}
	if ue.StartTime != nil {
		orig.StartTime = *ue.StartTime
	}
	if ue.EndTime != nil {
		orig.EndTime = *ue.EndTime
	}
	if ue.CategoryID != nil {
		orig.CategoryID = *ue.CategoryID
	}
	if ue.Color != nil {
		orig.Color = *ue.Color
	}
	if ue.SemesterStart != nil {
		orig.SemesterStart = ue.SemesterStart
	}
	if ue.SemesterEnd != nil {
		orig.SemesterEnd = ue.SemesterEnd
	}
	if ue.ExcludedDates != nil {
		orig.ExcludedDates = ue.ExcludedDates
	}
	return orig
}

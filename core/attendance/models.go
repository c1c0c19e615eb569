package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classflow/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

// AttendanceRecord is unique per (user, course, date); marking the same
// key twice overwrites the first record.
type AttendanceRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	CourseName string    `json:"courseName"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"` // UTC
	UpdatedAt  time.Time `json:"updatedAt"` // UTC
}

// MarkAttendance contains information needed to mark attendance for a
// course on a date. Date is an ISO calendar date such as "2024-01-10".
type MarkAttendance struct {
	CourseName string `json:"courseName" validate:"required"`
	Date       string `json:"date" validate:"required,isodate"`
	Status     string `json:"status" validate:"required,oneof=present absent late excused"`
	Notes      string `json:"notes"`
}

func (ma *MarkAttendance) Validate(validate *validator.Validate) error {
	ma.CourseName = core.CleanString(ma.CourseName)
	return validate.Struct(ma)
}

// ParseDate returns the mark's date at UTC midnight.
func (ma MarkAttendance) ParseDate() (time.Time, error) {
	return time.Parse("2006-01-02", ma.Date)
}

// UpdateAttendance defines what information may be provided to modify an
// existing AttendanceRecord. Nil fields leave the original values untouched.
type UpdateAttendance struct {
	CourseName *string `json:"courseName"`
	Date       *string `json:"date" validate:"omitempty,isodate"`
	Status     *string `json:"status" validate:"omitempty,oneof=present absent late excused"`
	Notes      *string `json:"notes"`
}

func (ua *UpdateAttendance) Validate(validate *validator.Validate) error {
	if ua.CourseName != nil {
		name := core.CleanString(*ua.CourseName)
		ua.CourseName = &name
	}
	return validate.Struct(ua)
}

// Merge applies the set fields onto orig.
func (ua UpdateAttendance) Merge(orig AttendanceRecord) (AttendanceRecord, error) {
	if ua.CourseName != nil {
		orig.CourseName = *ua.CourseName
	}
	if ua.Date != nil {
		date, err := time.Parse("2006-01-02", *ua.Date)
		if err != nil {
			return AttendanceRecord{}, err
		}
		orig.Date = date
	}
	if ua.Status != nil {
		orig.Status = *ua.Status
	}
	if ua.Notes != nil {
		orig.Notes = *ua.Notes
	}
	return orig, nil
}

// QueryFilter narrows an attendance listing. Zero-valued fields do not
// narrow the result set. StartDate and EndDate only apply when both are
// set; the range is inclusive on both ends.
type QueryFilter struct {
	CourseName string
	StartDate  time.Time
	EndDate    time.Time
}

// HasRange reports whether the date range filter is active.
func (qf *QueryFilter) HasRange() bool {
	return !qf.StartDate.IsZero() && !qf.EndDate.IsZero()
}

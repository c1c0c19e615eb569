package event

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classflow/core"
	"github.com/trezcool/classflow/core/category"
)

// Classifications
const (
	ClassificationClass      = "class"
	ClassificationExam       = "exam"
	ClassificationAssignment = "assignment"
	ClassificationDeadline   = "deadline"
	ClassificationMeeting    = "meeting"
	ClassificationPersonal   = "personal"
	ClassificationOther      = "other"
)

// Priorities
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// TaskClassifications are the classifications counted as "tasks" rather
// than plain calendar events.
var TaskClassifications = []string{ClassificationAssignment, ClassificationDeadline, ClassificationExam}

// IsTask reports whether the classification belongs to the task partition.
func IsTask(classification string) bool {
	for _, c := range TaskClassifications {
		if c == classification {
			return true
		}
	}
	return false
}

type Event struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	Title          string        `json:"title"`
	Classification string        `json:"classification"`
	CategoryID     string        `json:"categoryId,omitempty"`
	Category       *category.Ref `json:"category,omitempty"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        *time.Time    `json:"endTime,omitempty"`
	Location       string        `json:"location,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	IsCompleted    bool          `json:"isCompleted"`
	Priority       string        `json:"priority"`
	IsAllDay       bool          `json:"isAllDay"`
	IsImportant    bool          `json:"isImportant"`
	Color          string        `json:"color,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"` // UTC
	UpdatedAt      time.Time     `json:"updatedAt"` // UTC
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title          string     `json:"title" validate:"required"`
	Classification string     `json:"classification" validate:"required,oneof=class exam assignment deadline meeting personal other"`
	CategoryID     string     `json:"categoryId"`
	StartTime      time.Time  `json:"startTime" validate:"required"`
	EndTime        *time.Time `json:"endTime"`
	Location       string     `json:"location"`
	Notes          string     `json:"notes"`
	Priority       string     `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	IsAllDay       bool       `json:"isAllDay"`
	IsImportant    bool       `json:"isImportant"`
	Color          string     `json:"color"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Location = core.CleanString(ne.Location)
	if ne.Priority == "" {
		ne.Priority = PriorityMedium
	}
	return validate.Struct(ne)
}

// UpdateEvent defines what information may be provided to modify an existing Event.
// Nil fields leave the original values untouched.
type UpdateEvent struct {
	Title          *string    `json:"title"`
	Classification *string    `json:"classification" validate:"omitempty,oneof=class exam assignment deadline meeting personal other"`
	CategoryID     *string    `json:"categoryId"`
	StartTime      *time.Time `json:"startTime"`
	EndTime        *time.Time `json:"endTime"`
	Location       *string    `json:"location"`
	Notes          *string    `json:"notes"`
	IsCompleted    *bool      `json:"isCompleted"`
	Priority       *string    `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	IsAllDay       *bool      `json:"isAllDay"`
	IsImportant    *bool      `json:"isImportant"`
	Color          *string    `json:"color"`
}

func (ue *UpdateEvent) Validate(validate *validator.Validate) error {
	if ue.Title != nil {
		title := core.CleanString(*ue.Title)
		ue.Title = &title
	}
	return validate.Struct(ue)
}

// Merge applies the set fields onto orig.
func (ue UpdateEvent) Merge(orig Event) Event {
	if ue.Title != nil {
		orig.Title = *ue.Title
	}
	if ue.Classification != nil {
		orig.Classification = *ue.Classification
	}
	if ue.CategoryID != nil {
		orig.CategoryID = *ue.CategoryID
	}
	if ue.StartTime != nil {
		orig.StartTime = *ue.StartTime
	}
	if ue.EndTime != nil {
		orig.EndTime = ue.EndTime
	}
	if ue.Location != nil {
		orig.Location = *ue.Location
	}
	if ue.Notes != nil {
		orig.Notes = *ue.Notes
	}
	if ue.IsCompleted != nil {
		orig.IsCompleted = *ue.IsCompleted
	}
	if ue.Priority != nil {
		orig.Priority = *ue.Priority
	}
	if ue.IsAllDay != nil {
		orig.IsAllDay = *ue.IsAllDay
	}
	if ue.IsImportant != nil {
		orig.IsImportant = *ue.IsImportant
	}
	if ue.Color != nil {
		orig.Color = *ue.Color
	}
	return orig
}

// QueryFilter narrows an event listing. Zero-valued fields do not narrow
// the result set. StartDate and EndDate only apply when both are set;
// the range is inclusive on both ends.
type QueryFilter struct {
	Classification string
	CategoryID     string
	IsCompleted    *bool
	StartDate      time.Time
	EndDate        time.Time
}

// HasRange reports whether the date range filter is active.
func (qf *QueryFilter) HasRange() bool {
	return !qf.StartDate.IsZero() && !qf.EndDate.IsZero()
}

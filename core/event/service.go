package event

import (
	"context"
	"time"

	"github.com/trezcool/classflow/core"
	"github.com/trezcool/classflow/core/category"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("event not found")
)

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		// QueryEvents applies AND operation on available QueryFilter fields
		// and returns userID's matches sorted by start time ascending.
		QueryEvents(ctx context.Context, userID string, filter *QueryFilter) ([]Event, error)
		// QueryUpcomingEvents returns at most limit uncompleted events with any of
		// the given classifications starting at or after `from`, soonest first.
		QueryUpcomingEvents(ctx context.Context, userID string, from time.Time, classifications []string, limit int) ([]Event, error)
		GetEvent(ctx context.Context, id, userID string) (Event, error)
		UpdateEvent(ctx context.Context, evt Event) (Event, error)
		DeleteEvent(ctx context.Context, id, userID string) error
	}

	Service interface {
		Create(ctx context.Context, userID string, ne NewEvent) (Event, error)
		Query(ctx context.Context, userID string, filter *QueryFilter) ([]Event, error)
		QueryDay(ctx context.Context, userID string, date time.Time) ([]Event, error)
		QueryUpcoming(ctx context.Context, userID string, limit int) ([]Event, error)
		GetByID(ctx context.Context, id, userID string) (Event, error)
		Update(ctx context.Context, orig Event, ue UpdateEvent) (Event, error)
		Delete(ctx context.Context, id, userID string) error
		ToggleComplete(ctx context.Context, id, userID string) (Event, error)
		TodayStats(ctx context.Context, userID string) (TodayStats, error)
		DayCounts(ctx context.Context, userID string, date time.Time) (DayCounts, error)
	}

	service struct {
		repo    Repository
		catRepo category.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, catRepo category.Repository) Service {
	return &service{repo: repo, catRepo: catRepo}
}

// DayWindow returns the closed interval covering the calendar day of t
// in t's location: [00:00:00.000, 23:59:59.999].
func DayWindow(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end = time.Date(y, m, d, 23, 59, 59, 999000000, t.Location())
	return start, end
}

func (svc *service) Create(ctx context.Context, userID string, ne NewEvent) (Event, error) {
	now := time.Now().UTC()
	evt := Event{
		UserID:         userID,
		Title:          ne.Title,
		Classification: ne.Classification,
		CategoryID:     ne.CategoryID,
		StartTime:      ne.StartTime,
		EndTime:        ne.EndTime,
		Location:       ne.Location,
		Notes:          ne.Notes,
		Priority:       ne.Priority,
		IsAllDay:       ne.IsAllDay,
		IsImportant:    ne.IsImportant,
		Color:          ne.Color,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	evt, err := svc.repo.CreateEvent(ctx, evt)
	if err != nil {
		return Event{}, err
	}
	return svc.attachCategory(ctx, evt)
}

func (svc *service) Query(ctx context.Context, userID string, filter *QueryFilter) ([]Event, error) {
	events, err := svc.repo.QueryEvents(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return svc.attachCategories(ctx, userID, events)
}

func (svc *service) QueryDay(ctx context.Context, userID string, date time.Time) ([]Event, error) {
	start, end := DayWindow(date)
	return svc.Query(ctx, userID, &QueryFilter{StartDate: start, EndDate: end})
}

func (svc *service) QueryUpcoming(ctx context.Context, userID string, limit int) ([]Event, error) {
	events, err := svc.repo.QueryUpcomingEvents(ctx, userID, time.Now(), TaskClassifications, limit)
	if err != nil {
		return nil, err
	}
	return svc.attachCategories(ctx, userID, events)
}

func (svc *service) GetByID(ctx context.Context, id, userID string) (Event, error) {
	evt, err := svc.repo.GetEvent(ctx, id, userID)
	if err != nil {
		return Event{}, err
	}
	return svc.attachCategory(ctx, evt)
}

func (svc *service) Update(ctx context.Context, orig Event, ue UpdateEvent) (Event, error) {
	evt := ue.Merge(orig)
	evt.UpdatedAt = time.Now().UTC()
	evt, err := svc.repo.UpdateEvent(ctx, evt)
	if err != nil {
		return Event{}, err
	}
	return svc.attachCategory(ctx, evt)
}

func (svc *service) Delete(ctx context.Context, id, userID string) error {
	return svc.repo.DeleteEvent(ctx, id, userID)
}

// ToggleComplete inverts IsCompleted and nothing else.
func (svc *service) ToggleComplete(ctx context.Context, id, userID string) (Event, error) {
	evt, err := svc.repo.GetEvent(ctx, id, userID)
	if err != nil {
		return Event{}, err
	}
	evt.IsCompleted = !evt.IsCompleted
	evt.UpdatedAt = time.Now().UTC()
	evt, err = svc.repo.UpdateEvent(ctx, evt)
	if err != nil {
		return Event{}, err
	}
	return svc.attachCategory(ctx, evt)
}

func (svc *service) TodayStats(ctx context.Context, userID string) (TodayStats, error) {
	events, err := svc.QueryDay(ctx, userID, time.Now())
	if err != nil {
		return TodayStats{}, err
	}
	return ComputeTodayStats(events), nil
}

func (svc *service) DayCounts(ctx context.Context, userID string, date time.Time) (DayCounts, error) {
	events, err := svc.QueryDay(ctx, userID, date)
	if err != nil {
		return DayCounts{}, err
	}
	return ComputeDayCounts(events), nil
}

// attachCategories resolves category references in bulk; dangling references
// are dropped from the response rather than failing the request.
func (svc *service) attachCategories(ctx context.Context, userID string, events []Event) ([]Event, error) {
	ids := make([]string, 0, len(events))
	for _, evt := range events {
		if evt.CategoryID != "" {
			ids = append(ids, evt.CategoryID)
		}
	}
	if len(ids) == 0 {
		return events, nil
	}

	refs, err := svc.catRepo.GetCategoryRefs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	for i, evt := range events {
		if evt.CategoryID != "" {
			events[i].Category = refs[evt.CategoryID]
		}
	}
	return events, nil
}

func (svc *service) attachCategory(ctx context.Context, evt Event) (Event, error) {
	if evt.CategoryID == "" {
		return evt, nil
	}
	refs, err := svc.catRepo.GetCategoryRefs(ctx, evt.UserID, []string{evt.CategoryID})
	if err != nil {
		return Event{}, err
	}
	evt.Category = refs[evt.CategoryID]
	return evt, nil
}

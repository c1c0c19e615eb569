package timetable

import (
	"context"
	"time"

	"github.com/trezcool/classflow/core"
	"github.com/trezcool/classflow/core/category"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("timetable entry not found")
)

type (
	Repository interface {
		CreateEntry(ctx context.Context, entry TimetableEntry) (TimetableEntry, error)
		// QueryEntries returns all of userID's entries sorted by earliest
		// day of week, then start time.
		QueryEntries(ctx context.Context, userID string) ([]TimetableEntry, error)
		// QueryEntriesByDay returns userID's entries recurring on the given
		// day of week (Monday=1 .. Sunday=7) sorted by start time.
		QueryEntriesByDay(ctx context.Context, userID string, dayOfWeek int) ([]TimetableEntry, error)
		GetEntry(ctx context.Context, id, userID string) (TimetableEntry, error)
		UpdateEntry(ctx context.Context, entry TimetableEntry) (TimetableEntry, error)
		DeleteEntry(ctx context.Context, id, userID string) error
	}

	Service interface {
		Create(ctx context.Context, userID string, ne NewTimetableEntry) (TimetableEntry, error)
		QueryAll(ctx context.Context, userID string) ([]TimetableEntry, error)
		QueryByDay(ctx context.Context, userID string, dayOfWeek int) ([]TimetableEntry, error)
		// ResolveForDate returns the occurrences active on the given date.
		ResolveForDate(ctx context.Context, userID string, date time.Time) ([]TimetableEntry, error)
		GetByID(ctx context.Context, id, userID string) (TimetableEntry, error)
		Update(ctx context.Context, orig TimetableEntry, ue UpdateTimetableEntry) (TimetableEntry, error)
		Delete(ctx context.Context, id, userID string) error
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

func (svc *service) Create(ctx context.Context, userID string, ne NewTimetableEntry) (TimetableEntry, error) {
	now := time.Now().UTC()
	entry := TimetableEntry{
		UserID:        userID,
		CourseName:    ne.CourseName,
		CourseCode:    ne.CourseCode,
		Instructor:    ne.Instructor,
		Room:          ne.Room,
		DaysOfWeek:    ne.DaysOfWeek,
		StartTime:     ne.StartTime,
		EndTime:       ne.EndTime,
		CategoryID:    ne.CategoryID,
		Color:         ne.Color,
		SemesterStart: ne.SemesterStart,
		SemesterEnd:   ne.SemesterEnd,
		ExcludedDates: ne.ExcludedDates,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	entry, err := svc.repo.CreateEntry(ctx, entry)
	if err != nil {
		return TimetableEntry{}, err
	}
	return svc.attachCategory(ctx, entry)
}

func (svc *service) QueryAll(ctx context.Context, userID string) ([]TimetableEntry, error) {
	entries, err := svc.repo.QueryEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return svc.attachCategories(ctx, userID, entries)
}

func (svc *service) QueryByDay(ctx context.Context, userID string, dayOfWeek int) ([]TimetableEntry, error) {
	entries, err := svc.repo.QueryEntriesByDay(ctx, userID, dayOfWeek)
	if err != nil {
		return nil, err
	}
	return svc.attachCategories(ctx, userID, entries)
}

func (svc *service) ResolveForDate(ctx context.Context, userID string, date time.Time) ([]TimetableEntry, error) {
	entries, err := svc.repo.QueryEntriesByDay(ctx, userID, DayOfWeek(date))
	if err != nil {
		return nil, err
	}
	return svc.attachCategories(ctx, userID, ResolveDate(entries, date))
}

func (svc *service) GetByID(ctx context.Context, id, userID string) (TimetableEntry, error) {
	entry, err := svc.repo.GetEntry(ctx, id, userID)
	if err != nil {
		return TimetableEntry{}, err
	}
	return svc.attachCategory(ctx, entry)
}

func (svc *service) Update(ctx context.Context, orig TimetableEntry, ue UpdateTimetableEntry) (TimetableEntry, error) {
	entry := ue.Merge(orig)
	entry.UpdatedAt = time.Now().UTC()
	entry, err := svc.repo.UpdateEntry(ctx, entry)
	if err != nil {
		return TimetableEntry{}, err
	}
	return svc.attachCategory(ctx, entry)
}

func (svc *service) Delete(ctx context.Context, id, userID string) error {
	return svc.repo.DeleteEntry(ctx, id, userID)
}

func (svc *service) attachCategories(ctx context.Context, userID string, entries []TimetableEntry) ([]TimetableEntry, error) {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.CategoryID != "" {
			ids = append(ids, entry.CategoryID)
		}
	}
	if len(ids) == 0 {
		return entries, nil
	}

	refs, err := svc.catRepo.GetCategoryRefs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	for i, entry := range entries {
		if entry.CategoryID != "" {
			entries[i].Category = refs[entry.CategoryID]
		}
	}
	return entries, nil
}

func (svc *service) attachCategory(ctx context.Context, entry TimetableEntry) (TimetableEntry, error) {
	if entry.CategoryID == "" {
		return entry, nil
	}
	refs, err := svc.catRepo.GetCategoryRefs(ctx, entry.UserID, []string{entry.CategoryID})
	if err != nil {
		return TimetableEntry{}, err
	}
	entry.Category = refs[entry.CategoryID]
	return entry, nil
}

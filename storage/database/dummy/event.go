package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/classflow/core/event"
)

type eventRepository struct {
	db *eventTable
}

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) query(userID string) []event.Event {
	events := make([]event.Event, 0, len(repo.db.table))
	for _, evt := range repo.db.table {
		if evt.UserID == userID {
			events = append(events, *evt)
		}
	}
	return events
}

func (repo *eventRepository) CreateEvent(_ context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	evt.ID = uuid.NewString()
	repo.db.table[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryEvents(_ context.Context, userID string, filter *event.QueryFilter) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]event.Event, 0)
	for _, evt := range repo.query(userID) {
		if filter != nil {
			if filter.Classification != "" && evt.Classification != filter.Classification {
				continue
			}
			if filter.CategoryID != "" && evt.CategoryID != filter.CategoryID {
				continue
			}
			if filter.IsCompleted != nil && evt.IsCompleted != *filter.IsCompleted {
				continue
			}
			if filter.HasRange() && (evt.StartTime.Before(filter.StartDate) || evt.StartTime.After(filter.EndDate)) {
				continue
			}
		}
		events = append(events, evt)
	}

	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	return events, nil
}

func (repo *eventRepository) QueryUpcomingEvents(
	_ context.Context, userID string, from time.Time, classifications []string, limit int,
) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]event.Event, 0)
	for _, evt := range repo.query(userID) {
		if evt.IsCompleted || evt.StartTime.Before(from) {
			continue
		}
		if !containsString(classifications, evt.Classification) {
			continue
		}
		events = append(events, evt)
	}

	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (repo *eventRepository) GetEvent(_ context.Context, id, userID string) (event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if evt, ok := repo.db.table[id]; ok && evt.UserID == userID {
		return *evt, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) UpdateEvent(_ context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[evt.ID]
	if !ok || orig.UserID != evt.UserID {
		return event.Event{}, event.ErrNotFound
	}
	repo.db.table[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) DeleteEvent(_ context.Context, id, userID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if evt, ok := repo.db.table[id]; ok && evt.UserID == userID {
		delete(repo.db.table, id)
		return nil
	}
	return event.ErrNotFound
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

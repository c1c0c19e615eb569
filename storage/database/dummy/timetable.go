package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/classflow/core/timetable"
)

type timetableRepository struct {
	db *timetableTable
}

func NewTimetableRepository(db *DB) timetable.Repository {
	return &timetableRepository{db: db.timetable}
}

func (repo *timetableRepository) query(userID string) []timetable.TimetableEntry {
	entries := make([]timetable.TimetableEntry, 0, len(repo.db.table))
	for _, entry := range repo.db.table {
		if entry.UserID == userID {
			entries = append(entries, *entry)
		}
	}
	return entries
}

func (repo *timetableRepository) CreateEntry(_ context.Context, entry timetable.TimetableEntry) (timetable.TimetableEntry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	entry.ID = uuid.NewString()
	repo.db.table[entry.ID] = &entry
	return entry, nil
}

func (repo *timetableRepository) QueryEntries(_ context.Context, userID string) ([]timetable.TimetableEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := repo.query(userID)
	sort.Slice(entries, func(i, j int) bool {
		di, dj := earliestDay(entries[i]), earliestDay(entries[j])
		if di != dj {
			return di < dj
		}
		return entries[i].StartTime < entries[j].StartTime
	})
	return entries, nil
}

func (repo *timetableRepository) QueryEntriesByDay(_ context.Context, userID string, dayOfWeek int) ([]timetable.TimetableEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]timetable.TimetableEntry, 0)
	for _, entry := range repo.query(userID) {
		if entry.RecursOn(dayOfWeek) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartTime < entries[j].StartTime })
	return entries, nil
}

func (repo *timetableRepository) GetEntry(_ context.Context, id, userID string) (timetable.TimetableEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if entry, ok := repo.db.table[id]; ok && entry.UserID == userID {
		return *entry, nil
	}
	return timetable.TimetableEntry{}, timetable.ErrNotFound
}

func (repo *timetableRepository) UpdateEntry(_ context.Context, entry timetable.TimetableEntry) (timetable.TimetableEntry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[entry.ID]
	if !ok || orig.UserID != entry.UserID {
		return timetable.TimetableEntry{}, timetable.ErrNotFound
	}
	repo.db.table[entry.ID] = &entry
	return entry, nil
}

func (repo *timetableRepository) DeleteEntry(_ context.Context, id, userID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if entry, ok := repo.db.table[id]; ok && entry.UserID == userID {
		delete(repo.db.table, id)
		return nil
	}
	return timetable.ErrNotFound
}

func earliestDay(entry timetable.TimetableEntry) int {
	min := 8
	for _, day := range entry.DaysOfWeek {
		if day < min {
			min = day
		}
	}
	return min
}

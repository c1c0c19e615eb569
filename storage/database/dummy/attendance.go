package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/classflow/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) query(userID string) []attendance.AttendanceRecord {
	records := make([]attendance.AttendanceRecord, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		if rec.UserID == userID {
			records = append(records, *rec)
		}
	}
	return records
}

func (repo *attendanceRepository) CreateRecord(_ context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.UserID == rec.UserID && existing.CourseName == rec.CourseName && sameDate(existing.Date, rec.Date) {
			return attendance.AttendanceRecord{}, attendance.ErrRecordExists
		}
	}

	rec.ID = uuid.NewString()
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) QueryRecords(_ context.Context, userID string, filter *attendance.QueryFilter) ([]attendance.AttendanceRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]attendance.AttendanceRecord, 0)
	for _, rec := range repo.query(userID) {
		if filter != nil {
			if filter.CourseName != "" && rec.CourseName != filter.CourseName {
				continue
			}
			if filter.HasRange() && (rec.Date.Before(filter.StartDate) || rec.Date.After(filter.EndDate)) {
				continue
			}
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	return records, nil
}

func (repo *attendanceRepository) GetRecord(_ context.Context, id, userID string) (attendance.AttendanceRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[id]; ok && rec.UserID == userID {
		return *rec, nil
	}
	return attendance.AttendanceRecord{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) GetRecordByKey(_ context.Context, userID, courseName string, date time.Time) (attendance.AttendanceRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, rec := range repo.query(userID) {
		if rec.CourseName == courseName && sameDate(rec.Date, date) {
			return rec, nil
		}
	}
	return attendance.AttendanceRecord{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) UpdateRecord(_ context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[rec.ID]
	if !ok || orig.UserID != rec.UserID {
		return attendance.AttendanceRecord{}, attendance.ErrNotFound
	}
	for _, existing := range repo.db.table {
		if existing.ID != rec.ID && existing.UserID == rec.UserID &&
			existing.CourseName == rec.CourseName && sameDate(existing.Date, rec.Date) {
			return attendance.AttendanceRecord{}, attendance.ErrRecordExists
		}
	}

	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) DeleteRecord(_ context.Context, id, userID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if rec, ok := repo.db.table[id]; ok && rec.UserID == userID {
		delete(repo.db.table, id)
		return nil
	}
	return attendance.ErrNotFound
}

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

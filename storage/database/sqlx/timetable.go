package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classflow/core/timetable"
)

type timetableRow struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	CourseName    string         `db:"course_name"`
	CourseCode    string         `db:"course_code"`
	Instructor    string         `db:"instructor"`
	Room          string         `db:"room"`
	DaysOfWeek    pq.Int64Array  `db:"days_of_week"`
	StartTime     string         `db:"start_time"`
	EndTime       string         `db:"end_time"`
	CategoryID    null.String    `db:"category_id"`
	Color         string         `db:"color"`
	SemesterStart null.Time      `db:"semester_start"`
	SemesterEnd   null.Time      `db:"semester_end"`
	ExcludedDates pq.StringArray `db:"excluded_dates"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (row timetableRow) toEntry() timetable.TimetableEntry {
	days := make([]int, 0, len(row.DaysOfWeek))
	for _, day := range row.DaysOfWeek {
		days = append(days, int(day))
	}
	return timetable.TimetableEntry{
		ID:            row.ID,
		UserID:        row.UserID,
		CourseName:    row.CourseName,
		CourseCode:    row.CourseCode,
		Instructor:    row.Instructor,
		Room:          row.Room,
		DaysOfWeek:    days,
		StartTime:     row.StartTime,
		EndTime:       row.EndTime,
		CategoryID:    row.CategoryID.String,
		Color:         row.Color,
		SemesterStart: row.SemesterStart.Ptr(),
		SemesterEnd:   row.SemesterEnd.Ptr(),
		ExcludedDates: row.ExcludedDates,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func daysArray(days []int) pq.Int64Array {
	arr := make(pq.Int64Array, 0, len(days))
	for _, day := range days {
		arr = append(arr, int64(day))
	}
	return arr
}

type timetableRepository struct {
	db *sqlx.DB
}

func NewTimetableRepository(db *sqlx.DB) timetable.Repository {
	return &timetableRepository{db: db}
}

func (repo *timetableRepository) CreateEntry(ctx context.Context, entry timetable.TimetableEntry) (timetable.TimetableEntry, error) {
	entry.ID = uuid.NewString()
	q := `INSERT INTO timetable_entry (id, user_id, course_name, course_code, instructor, room,
	                                   days_of_week, start_time, end_time, category_id, color,
	                                   semester_start, semester_end, excluded_dates, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := repo.db.ExecContext(
		ctx, q,
		entry.ID, entry.UserID, entry.CourseName, entry.CourseCode, entry.Instructor, entry.Room,
		daysArray(entry.DaysOfWeek), entry.StartTime, entry.EndTime,
		null.NewString(entry.CategoryID, entry.CategoryID != ""), entry.Color,
		null.TimeFromPtr(entry.SemesterStart), null.TimeFromPtr(entry.SemesterEnd),
		pq.StringArray(entry.ExcludedDates), entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return timetable.TimetableEntry{}, errors.Wrap(err, "creating timetable entry")
	}
	return entry, nil
}

func (repo *timetableRepository) QueryEntries(ctx context.Context, userID string) ([]timetable.TimetableEntry, error) {
	q := `SELECT * FROM timetable_entry WHERE user_id = $1
	      ORDER BY (SELECT MIN(day) FROM unnest(days_of_week) AS day), start_time`
	var rows []timetableRow
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying timetable entries")
	}
	return toEntries(rows), nil
}

func (repo *timetableRepository) QueryEntriesByDay(ctx context.Context, userID string, dayOfWeek int) ([]timetable.TimetableEntry, error) {
	q := `SELECT * FROM timetable_entry WHERE user_id = $1 AND $2 = ANY(days_of_week) ORDER BY start_time`
	var rows []timetableRow
	if err := repo.db.SelectContext(ctx, &rows, q, userID, dayOfWeek); err != nil {
		return nil, errors.Wrap(err, "querying timetable entries by day")
	}
	return toEntries(rows), nil
}

func (repo *timetableRepository) GetEntry(ctx context.Context, id, userID string) (timetable.TimetableEntry, error) {
	var row timetableRow
	q := `SELECT * FROM timetable_entry WHERE id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, userID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return timetable.TimetableEntry{}, timetable.ErrNotFound
		}
		return timetable.TimetableEntry{}, errors.Wrap(err, "getting timetable entry")
	}
	return row.toEntry(), nil
}

func (repo *timetableRepository) UpdateEntry(ctx context.Context, entry timetable.TimetableEntry) (timetable.TimetableEntry, error) {
	q := `UPDATE timetable_entry
	      SET course_name = $3, course_code = $4, instructor = $5, room = $6, days_of_week = $7,
	          start_time = $8, end_time = $9, category_id = $10, color = $11,
	          semester_start = $12, semester_end = $13, excluded_dates = $14, updated_at = $15
	      WHERE id = $1 AND user_id = $2`
	res, err := repo.db.ExecContext(
		ctx, q,
		entry.ID, entry.UserID, entry.CourseName, entry.CourseCode, entry.Instructor, entry.Room,
		daysArray(entry.DaysOfWeek), entry.StartTime, entry.EndTime,
		null.NewString(entry.CategoryID, entry.CategoryID != ""), entry.Color,
		null.TimeFromPtr(entry.SemesterStart), null.TimeFromPtr(entry.SemesterEnd),
		pq.StringArray(entry.ExcludedDates), entry.UpdatedAt,
	)
	if err != nil {
		return timetable.TimetableEntry{}, errors.Wrap(err, "updating timetable entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return timetable.TimetableEntry{}, timetable.ErrNotFound
	}
	return entry, nil
}

func (repo *timetableRepository) DeleteEntry(ctx context.Context, id, userID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM timetable_entry WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "deleting timetable entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return timetable.ErrNotFound
	}
	return nil
}

func toEntries(rows []timetableRow) []timetable.TimetableEntry {
	entries := make([]timetable.TimetableEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classflow/core/attendance"
)

type attendanceRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	CourseName string    `db:"course_name"`
	Date       time.Time `db:"date"`
	Status     string    `db:"status"`
	Notes      string    `db:"notes"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (row attendanceRow) toRecord() attendance.AttendanceRecord {
	return attendance.AttendanceRecord{
		ID:         row.ID,
		UserID:     row.UserID,
		CourseName: row.CourseName,
		Date:       row.Date,
		Status:     row.Status,
		Notes:      row.Notes,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	rec.ID = uuid.NewString()
	q := `INSERT INTO attendance_record (id, user_id, course_name, date, status, notes, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, q, rec.ID, rec.UserID, rec.CourseName, rec.Date, rec.Status, rec.Notes, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.AttendanceRecord{}, attendance.ErrRecordExists
		}
		return attendance.AttendanceRecord{}, errors.Wrap(err, "creating attendance record")
	}
	return rec, nil
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, userID string, filter *attendance.QueryFilter) ([]attendance.AttendanceRecord, error) {
	q := `SELECT * FROM attendance_record WHERE user_id = $1`
	args := []interface{}{userID}

	if filter != nil {
		if filter.CourseName != "" {
			args = append(args, filter.CourseName)
			q += fmt.Sprintf(" AND course_name = $%d", len(args))
		}
		if filter.HasRange() {
			args = append(args, filter.StartDate, filter.EndDate)
			q += fmt.Sprintf(" AND date BETWEEN $%d AND $%d", len(args)-1, len(args))
		}
	}
	q += " ORDER BY date DESC"

	var rows []attendanceRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}

	records := make([]attendance.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

func (repo *attendanceRepository) GetRecord(ctx context.Context, id, userID string) (attendance.AttendanceRecord, error) {
	var row attendanceRow
	q := `SELECT * FROM attendance_record WHERE id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, userID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrNotFound
		}
		return attendance.AttendanceRecord{}, errors.Wrap(err, "getting attendance record")
	}
	return row.toRecord(), nil
}

func (repo *attendanceRepository) GetRecordByKey(ctx context.Context, userID, courseName string, date time.Time) (attendance.AttendanceRecord, error) {
	var row attendanceRow
	q := `SELECT * FROM attendance_record WHERE user_id = $1 AND course_name = $2 AND date = $3`
	if err := repo.db.GetContext(ctx, &row, q, userID, courseName, date); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrNotFound
		}
		return attendance.AttendanceRecord{}, errors.Wrap(err, "getting attendance record by key")
	}
	return row.toRecord(), nil
}

func (repo *attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := `UPDATE attendance_record
	      SET course_name = $3, date = $4, status = $5, notes = $6, updated_at = $7
	      WHERE id = $1 AND user_id = $2`
	res, err := repo.db.ExecContext(ctx, q, rec.ID, rec.UserID, rec.CourseName, rec.Date, rec.Status, rec.Notes, rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.AttendanceRecord{}, attendance.ErrRecordExists
		}
		return attendance.AttendanceRecord{}, errors.Wrap(err, "updating attendance record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.AttendanceRecord{}, attendance.ErrNotFound
	}
	return rec, nil
}

func (repo *attendanceRepository) DeleteRecord(ctx context.Context, id, userID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM attendance_record WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.ErrNotFound
	}
	return nil
}

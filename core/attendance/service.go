package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classflow/core"
)

var (
	// errors
	ErrNotFound     = core.NewNotFoundError("attendance record not found")
	ErrRecordExists = errors.New("attendance for this course and date already exists")
)

type (
	Repository interface {
		// CreateRecord persists a new record; a (user, course, date)
		// collision yields ErrRecordExists.
		CreateRecord(ctx context.Context, rec AttendanceRecord) (AttendanceRecord, error)
		// QueryRecords applies AND operation on available QueryFilter fields
		// and returns userID's matches sorted by date descending.
		QueryRecords(ctx context.Context, userID string, filter *QueryFilter) ([]AttendanceRecord, error)
		GetRecord(ctx context.Context, id, userID string) (AttendanceRecord, error)
		// GetRecordByKey resolves the (user, course, date) uniqueness key.
		GetRecordByKey(ctx context.Context, userID, courseName string, date time.Time) (AttendanceRecord, error)
		UpdateRecord(ctx context.Context, rec AttendanceRecord) (AttendanceRecord, error)
		DeleteRecord(ctx context.Context, id, userID string) error
	}

	Service interface {
		// Mark upserts on (user, course, date); created reports whether a
		// new record was created rather than an existing one corrected.
		Mark(ctx context.Context, userID string, ma MarkAttendance) (rec AttendanceRecord, created bool, err error)
		Query(ctx context.Context, userID string, filter *QueryFilter) ([]AttendanceRecord, error)
		QueryByCourse(ctx context.Context, userID, courseName string) ([]AttendanceRecord, error)
		Update(ctx context.Context, orig AttendanceRecord, ua UpdateAttendance) (AttendanceRecord, error)
		GetByID(ctx context.Context, id, userID string) (AttendanceRecord, error)
		Delete(ctx context.Context, id, userID string) error
		CourseStats(ctx context.Context, userID, courseName string) (CourseStats, error)
		AllStats(ctx context.Context, userID string) ([]CourseStats, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Mark(ctx context.Context, userID string, ma MarkAttendance) (AttendanceRecord, bool, error) {
	date, err := ma.ParseDate()
	if err != nil {
		return AttendanceRecord{}, false, core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
	}

	now := time.Now().UTC()

	// no transaction scope here: two identical concurrent marks race to
	// create, and the store's unique index rejects the loser with a conflict.
	orig, err := svc.repo.GetRecordByKey(ctx, userID, ma.CourseName, date)
	if err == nil {
		orig.Status = ma.Status
		orig.Notes = ma.Notes
		orig.UpdatedAt = now
		rec, err := svc.repo.UpdateRecord(ctx, orig)
		return rec, false, err
	}
	if !core.IsNotFound(err) {
		return AttendanceRecord{}, false, err
	}

	rec, err := svc.repo.CreateRecord(ctx, AttendanceRecord{
		UserID:     userID,
		CourseName: ma.CourseName,
		Date:       date,
		Status:     ma.Status,
		Notes:      ma.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if errors.Cause(err) == ErrRecordExists {
			return AttendanceRecord{}, false, core.NewConflictError("date", err.Error())
		}
		return AttendanceRecord{}, false, err
	}
	return rec, true, nil
}

func (svc *service) Query(ctx context.Context, userID string, filter *QueryFilter) ([]AttendanceRecord, error) {
	return svc.repo.QueryRecords(ctx, userID, filter)
}

func (svc *service) QueryByCourse(ctx context.Context, userID, courseName string) ([]AttendanceRecord, error) {
	return svc.repo.QueryRecords(ctx, userID, &QueryFilter{CourseName: courseName})
}

func (svc *service) GetByID(ctx context.Context, id, userID string) (AttendanceRecord, error) {
	return svc.repo.GetRecord(ctx, id, userID)
}

func (svc *service) Update(ctx context.Context, orig AttendanceRecord, ua UpdateAttendance) (AttendanceRecord, error) {
	rec, err := ua.Merge(orig)
	if err != nil {
		return AttendanceRecord{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
	}
	rec.UpdatedAt = time.Now().UTC()
	rec, err = svc.repo.UpdateRecord(ctx, rec)
	if err != nil {
		if errors.Cause(err) == ErrRecordExists {
			return AttendanceRecord{}, core.NewConflictError("date", err.Error())
		}
		return AttendanceRecord{}, err
	}
	return rec, nil
}

func (svc *service) Delete(ctx context.Context, id, userID string) error {
	return svc.repo.DeleteRecord(ctx, id, userID)
}

func (svc *service) CourseStats(ctx context.Context, userID, courseName string) (CourseStats, error) {
	records, err := svc.QueryByCourse(ctx, userID, courseName)
	if err != nil {
		return CourseStats{}, err
	}
	return ComputeCourseStats(records), nil
}

func (svc *service) AllStats(ctx context.Context, userID string) ([]CourseStats, error) {
	records, err := svc.repo.QueryRecords(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	return ComputeAllStats(records), nil
}

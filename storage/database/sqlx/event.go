package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classflow/core/event"
)

type eventRow struct {
	ID             string      `db:"id"`
	UserID         string      `db:"user_id"`
	Title          string      `db:"title"`
	Classification string      `db:"classification"`
	CategoryID     null.String `db:"category_id"`
	StartTime      time.Time   `db:"start_time"`
	EndTime        null.Time   `db:"end_time"`
	Location       string      `db:"location"`
	Notes          string      `db:"notes"`
	IsCompleted    bool        `db:"is_completed"`
	Priority       string      `db:"priority"`
	IsAllDay       bool        `db:"is_all_day"`
	IsImportant    bool        `db:"is_important"`
	Color          string      `db:"color"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (row eventRow) toEvent() event.Event {
	return event.Event{
		ID:             row.ID,
		UserID:         row.UserID,
		Title:          row.Title,
		Classification: row.Classification,
		CategoryID:     row.CategoryID.String,
		StartTime:      row.StartTime,
		EndTime:        row.EndTime.Ptr(),
		Location:       row.Location,
		Notes:          row.Notes,
		IsCompleted:    row.IsCompleted,
		Priority:       row.Priority,
		IsAllDay:       row.IsAllDay,
		IsImportant:    row.IsImportant,
		Color:          row.Color,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	evt.ID = uuid.NewString()
	q := `INSERT INTO event (id, user_id, title, classification, category_id, start_time, end_time,
	                         location, notes, is_completed, priority, is_all_day, is_important, color,
	                         created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := repo.db.ExecContext(
		ctx, q,
		evt.ID, evt.UserID, evt.Title, evt.Classification,
		null.NewString(evt.CategoryID, evt.CategoryID != ""),
		evt.StartTime, null.TimeFromPtr(evt.EndTime),
		evt.Location, evt.Notes, evt.IsCompleted, evt.Priority, evt.IsAllDay, evt.IsImportant, evt.Color,
		evt.CreatedAt, evt.UpdatedAt,
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "creating event")
	}
	return evt, nil
}

func (repo *eventRepository) QueryEvents(ctx context.Context, userID string, filter *event.QueryFilter) ([]event.Event, error) {
	q := `SELECT * FROM event WHERE user_id = $1`
	args := []interface{}{userID}

	if filter != nil {
		if filter.Classification != "" {
			args = append(args, filter.Classification)
			q += fmt.Sprintf(" AND classification = $%d", len(args))
		}
		if filter.CategoryID != "" {
			args = append(args, filter.CategoryID)
			q += fmt.Sprintf(" AND category_id = $%d", len(args))
		}
		if filter.IsCompleted != nil {
			args = append(args, *filter.IsCompleted)
			q += fmt.Sprintf(" AND is_completed = $%d", len(args))
		}
		if filter.HasRange() {
			args = append(args, filter.StartDate, filter.EndDate)
			q += fmt.Sprintf(" AND start_time BETWEEN $%d AND $%d", len(args)-1, len(args))
		}
	}
	q += " ORDER BY start_time"

	var rows []eventRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}

	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toEvent())
	}
	return events, nil
}

func (repo *eventRepository) QueryUpcomingEvents(
	ctx context.Context, userID string, from time.Time, classifications []string, limit int,
) ([]event.Event, error) {
	q := `SELECT * FROM event
	      WHERE user_id = $1 AND NOT is_completed AND classification = ANY($2) AND start_time >= $3
	      ORDER BY start_time
	      LIMIT $4`
	var rows []eventRow
	if err := repo.db.SelectContext(ctx, &rows, q, userID, pq.Array(classifications), from, limit); err != nil {
		return nil, errors.Wrap(err, "querying upcoming events")
	}

	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toEvent())
	}
	return events, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id, userID string) (event.Event, error) {
	var row eventRow
	q := `SELECT * FROM event WHERE id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, userID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, errors.Wrap(err, "getting event")
	}
	return row.toEvent(), nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	q := `UPDATE event
	      SET title = $3, classification = $4, category_id = $5, start_time = $6, end_time = $7,
	          location = $8, notes = $9, is_completed = $10, priority = $11, is_all_day = $12,
	          is_important = $13, color = $14, updated_at = $15
	      WHERE id = $1 AND user_id = $2`
	res, err := repo.db.ExecContext(
		ctx, q,
		evt.ID, evt.UserID, evt.Title, evt.Classification,
		null.NewString(evt.CategoryID, evt.CategoryID != ""),
		evt.StartTime, null.TimeFromPtr(evt.EndTime),
		evt.Location, evt.Notes, evt.IsCompleted, evt.Priority, evt.IsAllDay, evt.IsImportant, evt.Color,
		evt.UpdatedAt,
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return evt, nil
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id, userID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM event WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "deleting event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.ErrNotFound
	}
	return nil
}

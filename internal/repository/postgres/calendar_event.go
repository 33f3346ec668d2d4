package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/repository"
)

// Postgres error code for an exclusion-constraint violation
const exclusionViolation = "23P01"

type calendarEventRepository struct {
	db *sql.DB
}

func NewCalendarEventRepository(db *sql.DB) repository.CalendarEventRepository {
	return &calendarEventRepository{db: db}
}

const calendarEventColumns = `id, booking_request_id, resource, start_at, end_at, status, created_on, updated_on`

func (r *calendarEventRepository) CreateIfFree(ctx context.Context, event *domain.CalendarEvent) ([]domain.CalendarEvent, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock overlapping rows so two approvals cannot race into the same slot.
	// Half-open overlap: existing.start < candidate.end AND candidate.start < existing.end.
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
	          WHERE resource = $1 AND status = $2 AND start_at < $3 AND $4 < end_at
	          ORDER BY start_at ASC
	          FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, event.Resource, domain.EventStatusScheduled, event.EndAt, event.StartAt)
	if err != nil {
		return nil, err
	}

	var conflicts []domain.CalendarEvent
	for rows.Next() {
		var ev domain.CalendarEvent
		if err := rows.Scan(&ev.ID, &ev.BookingRequestID, &ev.Resource, &ev.StartAt, &ev.EndAt, &ev.Status, &ev.CreatedOn, &ev.UpdatedOn); err != nil {
			rows.Close()
			return nil, err
		}
		conflicts = append(conflicts, ev)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		return conflicts, nil
	}

	now := time.Now()
	insert := `INSERT INTO calendar_events (booking_request_id, resource, start_at, end_at, status, created_on, updated_on)
	           VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := tx.QueryRowContext(ctx, insert,
		event.BookingRequestID, event.Resource, event.StartAt, event.EndAt,
		domain.EventStatusScheduled, now, now,
	).Scan(&event.ID); err != nil {
		// Row locks cannot see an insert from a concurrent transaction that
		// also observed an empty overlap set; the exclusion constraint
		// rejects the second committer. Report it as an ordinary conflict.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == exclusionViolation {
			tx.Rollback()
			return r.overlapping(ctx, event, err)
		}
		return nil, err
	}
	event.Status = domain.EventStatusScheduled

	return nil, tx.Commit()
}

// overlapping re-reads the events that beat the caller to the slot, after the
// winning transaction has committed
func (r *calendarEventRepository) overlapping(ctx context.Context, event *domain.CalendarEvent, insertErr error) ([]domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
	          WHERE resource = $1 AND status = $2 AND start_at < $3 AND $4 < end_at
	          ORDER BY start_at ASC`
	conflicts, err := r.queryEvents(ctx, query, event.Resource, domain.EventStatusScheduled, event.EndAt, event.StartAt)
	if err != nil {
		return nil, err
	}
	if len(conflicts) == 0 {
		// The winner vanished between the failed insert and the re-read;
		// surface the constraint error and let the caller retry
		return nil, insertErr
	}
	return conflicts, nil
}

func (r *calendarEventRepository) GetByRequest(ctx context.Context, bookingRequestID int32) (*domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
	          WHERE booking_request_id = $1 AND status = $2
	          ORDER BY created_on DESC LIMIT 1`
	ev := &domain.CalendarEvent{}
	err := r.db.QueryRowContext(ctx, query, bookingRequestID, domain.EventStatusScheduled).Scan(
		&ev.ID, &ev.BookingRequestID, &ev.Resource, &ev.StartAt, &ev.EndAt, &ev.Status, &ev.CreatedOn, &ev.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *calendarEventRepository) Cancel(ctx context.Context, id int32) error {
	// Idempotent: a second cancel matches zero rows and that is fine
	query := `UPDATE calendar_events SET status = $1, updated_on = $2 WHERE id = $3 AND status != $1`
	_, err := r.db.ExecContext(ctx, query, domain.EventStatusCancelled, time.Now(), id)
	return err
}

func (r *calendarEventRepository) ListByResource(ctx context.Context, resource string, from, to time.Time) ([]domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
	          WHERE resource = $1 AND status = $2 AND start_at < $3 AND $4 < end_at
	          ORDER BY start_at ASC`
	return r.queryEvents(ctx, query, resource, domain.EventStatusScheduled, to, from)
}

func (r *calendarEventRepository) List(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
	          WHERE status = $1 AND start_at < $2 AND $3 < end_at
	          ORDER BY start_at ASC`
	return r.queryEvents(ctx, query, domain.EventStatusScheduled, to, from)
}

func (r *calendarEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]domain.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	for rows.Next() {
		var ev domain.CalendarEvent
		if err := rows.Scan(&ev.ID, &ev.BookingRequestID, &ev.Resource, &ev.StartAt, &ev.EndAt, &ev.Status, &ev.CreatedOn, &ev.UpdatedOn); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

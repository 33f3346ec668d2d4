package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	attrs, err := json.Marshal(note.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode notification attributes: %w", err)
	}
	query := `INSERT INTO notifications (recipient, title, message, attributes, is_read, created_on)
	          VALUES ($1, $2, $3, $4, FALSE, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, note.Recipient, note.Title, note.Message, attrs, time.Now()).Scan(&note.ID)
}

func (r *notificationRepository) List(ctx context.Context, recipient string, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE recipient = $1`, recipient).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, recipient, title, message, attributes, is_read, created_on FROM notifications
	          WHERE recipient = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, recipient, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var note domain.Notification
		var attrs []byte
		if err := rows.Scan(&note.ID, &note.Recipient, &note.Title, &note.Message, &attrs, &note.IsRead, &note.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &note.Attributes); err != nil {
				return nil, 0, fmt.Errorf("failed to decode notification attributes: %w", err)
			}
		}
		notes = append(notes, note)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id int32, recipient string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient = $2`
	_, err := r.db.ExecContext(ctx, query, id, recipient)
	return err
}

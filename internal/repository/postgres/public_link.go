package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/repository"
)

type publicLinkRepository struct {
	db *sql.DB
}

func NewPublicLinkRepository(db *sql.DB) repository.PublicLinkRepository {
	return &publicLinkRepository{db: db}
}

func (r *publicLinkRepository) Create(ctx context.Context, link *domain.PublicLink) error {
	// token carries a unique index; a collision surfaces here instead of
	// silently overwriting an issued link
	query := `INSERT INTO public_links (token, is_used, expires_on, created_by, created_on)
	          VALUES ($1, FALSE, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, link.Token, link.ExpiresOn, link.CreatedBy, time.Now()).Scan(&link.ID)
}

func (r *publicLinkRepository) GetByToken(ctx context.Context, token string) (*domain.PublicLink, error) {
	link := &domain.PublicLink{}
	query := `SELECT id, token, booking_request_id, is_used, expires_on, created_by, created_on FROM public_links WHERE token = $1`
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&link.ID, &link.Token, &link.BookingRequestID, &link.IsUsed, &link.ExpiresOn, &link.CreatedBy, &link.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (r *publicLinkRepository) Consume(ctx context.Context, token string, bookingRequestID int32) error {
	query := `UPDATE public_links SET is_used = TRUE, booking_request_id = $1, used_on = $2 WHERE token = $3 AND is_used = FALSE`
	res, err := r.db.ExecContext(ctx, query, bookingRequestID, time.Now(), token)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrLinkAlreadyUsed
	}
	return nil
}

func (r *publicLinkRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	// An expired link is invalid on lookup regardless; marking it used keeps
	// the table honest for the dashboard listing
	query := `UPDATE public_links SET is_used = TRUE WHERE is_used = FALSE AND expires_on IS NOT NULL AND expires_on < $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

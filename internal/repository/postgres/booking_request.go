package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/repository"
)

type bookingRequestRepository struct {
	db *sql.DB
}

func NewBookingRequestRepository(db *sql.DB) repository.BookingRequestRepository {
	return &bookingRequestRepository{db: db}
}

const bookingRequestColumns = `id, merchant_name, contact_email, contact_phone, pricing_options, start_date, end_date, description, category, sequence_number, status, needs_resolution, rejection_reason, created_on, updated_on`

func (r *bookingRequestRepository) Create(ctx context.Context, req *domain.BookingRequest) error {
	options, err := json.Marshal(req.PricingOptions)
	if err != nil {
		return fmt.Errorf("failed to encode pricing options: %w", err)
	}
	// The sequence number is scoped per merchant name and assigned inside the
	// insert so two submissions for the same merchant cannot pick the same one.
	query := `INSERT INTO booking_requests (merchant_name, contact_email, contact_phone, pricing_options, start_date, end_date, description, category, sequence_number, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
	                  (SELECT COALESCE(MAX(sequence_number), 0) + 1 FROM booking_requests WHERE merchant_name = $1),
	                  $9, $10, $11)
	          RETURNING id, sequence_number`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		req.MerchantName, req.ContactEmail, req.ContactPhone, options,
		req.StartDate, req.EndDate, req.Description, req.Category,
		req.Status, now, now,
	).Scan(&req.ID, &req.SequenceNumber)
}

func (r *bookingRequestRepository) CreateFromPublicLink(ctx context.Context, req *domain.BookingRequest, linkToken string) error {
	options, err := json.Marshal(req.PricingOptions)
	if err != nil {
		return fmt.Errorf("failed to encode pricing options: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	query := `INSERT INTO booking_requests (merchant_name, contact_email, contact_phone, pricing_options, start_date, end_date, description, category, sequence_number, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
	                  (SELECT COALESCE(MAX(sequence_number), 0) + 1 FROM booking_requests WHERE merchant_name = $1),
	                  $9, $10, $11)
	          RETURNING id, sequence_number`
	if err := tx.QueryRowContext(ctx, query,
		req.MerchantName, req.ContactEmail, req.ContactPhone, options,
		req.StartDate, req.EndDate, req.Description, req.Category,
		req.Status, now, now,
	).Scan(&req.ID, &req.SequenceNumber); err != nil {
		return err
	}

	// Consume the link in the same transaction. The is_used guard makes the
	// loser of a concurrent race roll back its request insert too.
	res, err := tx.ExecContext(ctx,
		`UPDATE public_links SET is_used = TRUE, booking_request_id = $1, used_on = $2 WHERE token = $3 AND is_used = FALSE`,
		req.ID, now, linkToken)
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

	return tx.Commit()
}

func (r *bookingRequestRepository) GetByID(ctx context.Context, id int32) (*domain.BookingRequest, error) {
	query := `SELECT ` + bookingRequestColumns + ` FROM booking_requests WHERE id = $1`
	req, err := scanBookingRequest(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return req, err
}

func (r *bookingRequestRepository) Update(ctx context.Context, req *domain.BookingRequest) error {
	options, err := json.Marshal(req.PricingOptions)
	if err != nil {
		return fmt.Errorf("failed to encode pricing options: %w", err)
	}
	// Guarded on the status the caller loaded, so a decision landing between
	// the read and this write cannot be overwritten
	query := `UPDATE booking_requests SET contact_email=$1, contact_phone=$2, pricing_options=$3, start_date=$4, end_date=$5, description=$6, category=$7, updated_on=$8 WHERE id=$9 AND status=$10`
	res, err := r.db.ExecContext(ctx, query,
		req.ContactEmail, req.ContactPhone, options,
		req.StartDate, req.EndDate, req.Description, req.Category,
		time.Now(), req.ID, req.Status)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAlreadyResolved
	}
	return nil
}

func (r *bookingRequestRepository) TransitionStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error {
	query := `UPDATE booking_requests SET status=$1, updated_on=$2 WHERE id=$3 AND status=$4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAlreadyResolved
	}
	return nil
}

func (r *bookingRequestRepository) SetNeedsResolution(ctx context.Context, id int32, needsResolution bool) error {
	query := `UPDATE booking_requests SET needs_resolution=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, needsResolution, time.Now(), id)
	return err
}

func (r *bookingRequestRepository) SetRejectionReason(ctx context.Context, id int32, reason string) error {
	query := `UPDATE booking_requests SET rejection_reason=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, reason, time.Now(), id)
	return err
}

func (r *bookingRequestRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingRequestColumns + ` FROM booking_requests`
	args := []interface{}{}
	argIdx := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []domain.BookingRequest
	for rows.Next() {
		req, err := scanBookingRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *req)
	}
	return requests, count, rows.Err()
}

func (r *bookingRequestRepository) ListStaleSubmitted(ctx context.Context, olderThan time.Time) ([]domain.BookingRequest, error) {
	query := `SELECT ` + bookingRequestColumns + ` FROM booking_requests WHERE status = $1 AND created_on < $2 ORDER BY created_on ASC`
	return r.queryRequests(ctx, query, domain.BookingStatusSubmitted, olderThan)
}

func (r *bookingRequestRepository) ListNeedingResolution(ctx context.Context) ([]domain.BookingRequest, error) {
	// Also picks up approved requests that never got a scheduled event, for
	// instance when the process died between the approval flip and the
	// calendar insert
	query := `SELECT ` + bookingRequestColumns + ` FROM booking_requests
	          WHERE status = $1 AND (needs_resolution = TRUE
	             OR NOT EXISTS (SELECT 1 FROM calendar_events e
	                            WHERE e.booking_request_id = booking_requests.id AND e.status = $2))
	          ORDER BY created_on ASC`
	return r.queryRequests(ctx, query, domain.BookingStatusApproved, domain.EventStatusScheduled)
}

func (r *bookingRequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]domain.BookingRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.BookingRequest
	for rows.Next() {
		req, err := scanBookingRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBookingRequest(row rowScanner) (*domain.BookingRequest, error) {
	req := &domain.BookingRequest{}
	var options []byte
	err := row.Scan(&req.ID, &req.MerchantName, &req.ContactEmail, &req.ContactPhone, &options,
		&req.StartDate, &req.EndDate, &req.Description, &req.Category, &req.SequenceNumber,
		&req.Status, &req.NeedsResolution, &req.RejectionReason, &req.CreatedOn, &req.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &req.PricingOptions); err != nil {
			return nil, fmt.Errorf("failed to decode pricing options: %w", err)
		}
	}
	return req, nil
}

package postgres_test

import (
	"context"
	"testing"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const bookingRequestCols = "id, merchant_name, contact_email, contact_phone, pricing_options, start_date, end_date, description, category, sequence_number, status, needs_resolution, rejection_reason, created_on, updated_on"

func bookingRequestRow(id int32, status domain.BookingStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "merchant_name", "contact_email", "contact_phone", "pricing_options",
		"start_date", "end_date", "description", "category", "sequence_number",
		"status", "needs_resolution", "rejection_reason", "created_on", "updated_on",
	}).AddRow(
		id, "Blue Bottle Coffee", "owner@test.com", "", `[{"title":"50% Off Lattes","price_cents":450,"terms":""}]`,
		"2026-10-01", "2026-10-07", "", "", 3,
		string(status), false, "", now, now,
	)
}

func TestBookingRequestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRequestRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		req := &domain.BookingRequest{
			MerchantName:   "Blue Bottle Coffee",
			ContactEmail:   "owner@test.com",
			PricingOptions: []domain.PricingOption{{Title: "50% Off Lattes", PriceCents: 450}},
			StartDate:      "2026-10-01",
			EndDate:        "2026-10-07",
			Status:         domain.BookingStatusSubmitted,
		}

		// The sequence number comes back from the insert itself
		mock.ExpectQuery("INSERT INTO booking_requests").
			WithArgs(req.MerchantName, req.ContactEmail, req.ContactPhone, sqlmock.AnyArg(),
				req.StartDate, req.EndDate, req.Description, req.Category,
				req.Status, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "sequence_number"}).AddRow(42, 3))

		err := repo.Create(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), req.ID)
		assert.Equal(t, int32(3), req.SequenceNumber)
	})
}

func TestBookingRequestRepository_CreateFromPublicLink(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRequestRepository(db)
	ctx := context.Background()

	req := func() *domain.BookingRequest {
		return &domain.BookingRequest{
			MerchantName:   "Blue Bottle Coffee",
			ContactEmail:   "owner@test.com",
			PricingOptions: []domain.PricingOption{{Title: "50% Off Lattes", PriceCents: 450}},
			StartDate:      "2026-10-01",
			EndDate:        "2026-10-07",
			Status:         domain.BookingStatusSubmitted,
		}
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO booking_requests").
			WillReturnRows(sqlmock.NewRows([]string{"id", "sequence_number"}).AddRow(42, 1))
		mock.ExpectExec("UPDATE public_links SET is_used = TRUE").
			WithArgs(int32(42), sqlmock.AnyArg(), "link-token").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		r := req()
		err := repo.CreateFromPublicLink(ctx, r, "link-token")
		assert.NoError(t, err)
		assert.Equal(t, int32(42), r.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LinkAlreadyConsumed", func(t *testing.T) {
		// Losing the link race rolls the request insert back too
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO booking_requests").
			WillReturnRows(sqlmock.NewRows([]string{"id", "sequence_number"}).AddRow(43, 2))
		mock.ExpectExec("UPDATE public_links SET is_used = TRUE").
			WithArgs(int32(43), sqlmock.AnyArg(), "link-token").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.CreateFromPublicLink(ctx, req(), "link-token")
		assert.ErrorIs(t, err, domain.ErrLinkAlreadyUsed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRequestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRequestRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT " + bookingRequestCols + " FROM booking_requests WHERE id").
			WithArgs(int32(42)).
			WillReturnRows(bookingRequestRow(42, domain.BookingStatusSubmitted))

		req, err := repo.GetByID(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), req.ID)
		assert.Equal(t, domain.BookingStatusSubmitted, req.Status)
		assert.Len(t, req.PricingOptions, 1)
		assert.Equal(t, "50% Off Lattes", req.PricingOptions[0].Title)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT " + bookingRequestCols + " FROM booking_requests WHERE id").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRequestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRequestRepository(db)
	ctx := context.Background()

	req := &domain.BookingRequest{
		ID:             42,
		MerchantName:   "Blue Bottle Coffee",
		ContactEmail:   "owner@test.com",
		PricingOptions: []domain.PricingOption{{Title: "50% Off Lattes", PriceCents: 450}},
		StartDate:      "2026-10-01",
		EndDate:        "2026-10-10",
		Status:         domain.BookingStatusSubmitted,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE booking_requests SET contact_email").
			WithArgs(req.ContactEmail, req.ContactPhone, sqlmock.AnyArg(),
				req.StartDate, req.EndDate, req.Description, req.Category,
				sqlmock.AnyArg(), int32(42), domain.BookingStatusSubmitted).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("StatusMovedOn", func(t *testing.T) {
		// A decision landed between the caller's read and this write; the
		// status guard matches zero rows instead of clobbering it
		mock.ExpectExec("UPDATE booking_requests SET contact_email").
			WithArgs(req.ContactEmail, req.ContactPhone, sqlmock.AnyArg(),
				req.StartDate, req.EndDate, req.Description, req.Category,
				sqlmock.AnyArg(), int32(42), domain.BookingStatusSubmitted).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, req)
		assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
	})
}

func TestBookingRequestRepository_TransitionStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRequestRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE booking_requests SET status").
			WithArgs(domain.BookingStatusApproved, sqlmock.AnyArg(), int32(42), domain.BookingStatusSubmitted).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.TransitionStatus(ctx, 42, domain.BookingStatusSubmitted, domain.BookingStatusApproved)
		assert.NoError(t, err)
	})

	t.Run("AlreadyResolved", func(t *testing.T) {
		// CAS matches zero rows once the request left SUBMITTED
		mock.ExpectExec("UPDATE booking_requests SET status").
			WithArgs(domain.BookingStatusApproved, sqlmock.AnyArg(), int32(42), domain.BookingStatusSubmitted).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.TransitionStatus(ctx, 42, domain.BookingStatusSubmitted, domain.BookingStatusApproved)
		assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
	})
}

func TestBookingRequestRepository_ListNeedingResolution(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRequestRepository(db)
	ctx := context.Background()

	// Catches both flagged requests and approved requests with no scheduled
	// event left behind by a fault
	mock.ExpectQuery("SELECT " + bookingRequestCols + " FROM booking_requests").
		WithArgs(domain.BookingStatusApproved, domain.EventStatusScheduled).
		WillReturnRows(bookingRequestRow(42, domain.BookingStatusApproved))

	requests, err := repo.ListNeedingResolution(ctx)
	assert.NoError(t, err)
	assert.Len(t, requests, 1)
	assert.Equal(t, int32(42), requests[0].ID)
}

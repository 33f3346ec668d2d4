package repository

import (
	"context"
	"time"

	"dealdesk-backend/internal/domain"
)

type BookingRequestRepository interface {
	Create(ctx context.Context, req *domain.BookingRequest) error
	// CreateFromPublicLink consumes the link and creates the request in one
	// transaction. Returns domain.ErrLinkAlreadyUsed when another submission
	// won the race for the same link.
	CreateFromPublicLink(ctx context.Context, req *domain.BookingRequest, linkToken string) error
	GetByID(ctx context.Context, id int32) (*domain.BookingRequest, error)
	// Update writes the mutable fields, guarded on the status the caller
	// loaded. Returns domain.ErrAlreadyResolved when the request moved on
	// in the meantime.
	Update(ctx context.Context, req *domain.BookingRequest) error
	// TransitionStatus is a compare-and-swap on status. Returns
	// domain.ErrAlreadyResolved when the request is no longer in `from`.
	TransitionStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error
	SetNeedsResolution(ctx context.Context, id int32, needsResolution bool) error
	SetRejectionReason(ctx context.Context, id int32, reason string) error
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error)
	ListStaleSubmitted(ctx context.Context, olderThan time.Time) ([]domain.BookingRequest, error)
	ListNeedingResolution(ctx context.Context) ([]domain.BookingRequest, error)
}

type PublicLinkRepository interface {
	Create(ctx context.Context, link *domain.PublicLink) error
	GetByToken(ctx context.Context, token string) (*domain.PublicLink, error)
	// Consume atomically marks the link used and binds the owning request.
	// Exactly one concurrent caller succeeds; the rest observe
	// domain.ErrLinkAlreadyUsed.
	Consume(ctx context.Context, token string, bookingRequestID int32) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type CalendarEventRepository interface {
	// CreateIfFree inserts the event only when no non-cancelled event on the
	// same resource overlaps it, deciding within a single transaction. On
	// conflict it returns the overlapping events and leaves the store
	// untouched.
	CreateIfFree(ctx context.Context, event *domain.CalendarEvent) ([]domain.CalendarEvent, error)
	GetByRequest(ctx context.Context, bookingRequestID int32) (*domain.CalendarEvent, error)
	// Cancel is idempotent; cancelling a cancelled event is a no-op
	Cancel(ctx context.Context, id int32) error
	ListByResource(ctx context.Context, resource string, from, to time.Time) ([]domain.CalendarEvent, error)
	List(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, recipient string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id int32, recipient string) error
}

type AuditLogRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListByEntity(ctx context.Context, entityType string, entityID int32) ([]domain.AuditEntry, error)
}

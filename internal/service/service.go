package service

import (
	"context"
	"time"

	"dealdesk-backend/internal/domain"
)

// SubmissionForm is the payload of a booking-request submission, whether it
// arrives through a public link or the internal form
type SubmissionForm struct {
	MerchantName   string                 `json:"merchant_name"`
	ContactEmail   string                 `json:"contact_email"`
	ContactPhone   string                 `json:"contact_phone"`
	PricingOptions []domain.PricingOption `json:"pricing_options"`
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	Description    string                 `json:"description"`
	Category       string                 `json:"category"`
}

// EditForm carries the fields an operator may change while a request is
// still pending
type EditForm struct {
	ContactEmail   *string                 `json:"contact_email,omitempty"`
	ContactPhone   *string                 `json:"contact_phone,omitempty"`
	PricingOptions *[]domain.PricingOption `json:"pricing_options,omitempty"`
	StartDate      *string                 `json:"start_date,omitempty"`
	EndDate        *string                 `json:"end_date,omitempty"`
	Description    *string                 `json:"description,omitempty"`
	Category       *string                 `json:"category,omitempty"`
}

// DecisionOutcome is the structured result of an approval-token redemption.
// Applied is false when the request was already resolved; that is a no-op,
// not an error.
type DecisionOutcome struct {
	BookingRequestID int32                 `json:"booking_request_id"`
	Action           domain.ApprovalAction `json:"action"`
	Applied          bool                  `json:"applied"`
	Status           domain.BookingStatus  `json:"status"`
	NeedsResolution  bool                  `json:"needs_resolution"`
	ReasonCode       string                `json:"reason_code,omitempty"`
}

type BookingService interface {
	SubmitViaPublicLink(ctx context.Context, token string, form SubmissionForm) (*domain.BookingRequest, error)
	SubmitInternal(ctx context.Context, actor domain.Actor, form SubmissionForm) (*domain.BookingRequest, error)
	RedeemApprovalToken(ctx context.Context, token, reason string) (*DecisionOutcome, error)
	CancelBooking(ctx context.Context, actor domain.Actor, requestID int32, reason string) error
	EditPending(ctx context.Context, actor domain.Actor, requestID int32, edits EditForm) (*domain.BookingRequest, error)
	Reschedule(ctx context.Context, actor domain.Actor, requestID int32, startDate, endDate string) (*domain.CalendarEvent, error)
	GetRequest(ctx context.Context, requestID int32) (*domain.BookingRequest, error)
	ListRequests(ctx context.Context, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error)
}

type LinkService interface {
	IssueLink(ctx context.Context, actor domain.Actor) (*domain.PublicLink, string, error) // link, share URL
	ValidateLink(ctx context.Context, token string) (*domain.PublicLink, error)
}

type CalendarService interface {
	Schedule(ctx context.Context, req *domain.BookingRequest) (*domain.CalendarEvent, error)
	CancelEvent(ctx context.Context, eventID int32) error
	EventForRequest(ctx context.Context, requestID int32) (*domain.CalendarEvent, error)
	ListEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error)
	ListEventsByResource(ctx context.Context, resource string, from, to time.Time) ([]domain.CalendarEvent, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, recipient string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, recipient string, notificationID int32) error
}

type EmailService interface {
	SendSubmissionReceipt(ctx context.Context, to, displayName string) error
	SendApprovalRequest(ctx context.Context, to, displayName, approveURL, rejectURL string) error
	SendDecisionNotification(ctx context.Context, to, displayName string, approved bool, reason string) error
	SendConflictAlert(ctx context.Context, to, displayName string, conflicts []domain.CalendarEvent) error
	SendCancellationNotification(ctx context.Context, to, displayName, reason string) error
	SendPendingReminder(ctx context.Context, to string, displayNames []string) error
}

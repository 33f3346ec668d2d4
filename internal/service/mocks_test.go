package service_test

import (
	"context"
	"time"

	"dealdesk-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockBookingRequestRepo
type MockBookingRequestRepo struct {
	mock.Mock
}

func (m *MockBookingRequestRepo) Create(ctx context.Context, req *domain.BookingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockBookingRequestRepo) CreateFromPublicLink(ctx context.Context, req *domain.BookingRequest, linkToken string) error {
	args := m.Called(ctx, req, linkToken)
	return args.Error(0)
}
func (m *MockBookingRequestRepo) GetByID(ctx context.Context, id int32) (*domain.BookingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingRequestRepo) Update(ctx context.Context, req *domain.BookingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockBookingRequestRepo) TransitionStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockBookingRequestRepo) SetNeedsResolution(ctx context.Context, id int32, needsResolution bool) error {
	args := m.Called(ctx, id, needsResolution)
	return args.Error(0)
}
func (m *MockBookingRequestRepo) SetRejectionReason(ctx context.Context, id int32, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}
func (m *MockBookingRequestRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.BookingRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRequestRepo) ListStaleSubmitted(ctx context.Context, olderThan time.Time) ([]domain.BookingRequest, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}
func (m *MockBookingRequestRepo) ListNeedingResolution(ctx context.Context) ([]domain.BookingRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}

// MockPublicLinkRepo
type MockPublicLinkRepo struct {
	mock.Mock
}

func (m *MockPublicLinkRepo) Create(ctx context.Context, link *domain.PublicLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}
func (m *MockPublicLinkRepo) GetByToken(ctx context.Context, token string) (*domain.PublicLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicLink), args.Error(1)
}
func (m *MockPublicLinkRepo) Consume(ctx context.Context, token string, bookingRequestID int32) error {
	args := m.Called(ctx, token, bookingRequestID)
	return args.Error(0)
}
func (m *MockPublicLinkRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockCalendarEventRepo
type MockCalendarEventRepo struct {
	mock.Mock
}

func (m *MockCalendarEventRepo) CreateIfFree(ctx context.Context, event *domain.CalendarEvent) ([]domain.CalendarEvent, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalendarEvent), args.Error(1)
}
func (m *MockCalendarEventRepo) GetByRequest(ctx context.Context, bookingRequestID int32) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, bookingRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}
func (m *MockCalendarEventRepo) Cancel(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCalendarEventRepo) ListByResource(ctx context.Context, resource string, from, to time.Time) ([]domain.CalendarEvent, error) {
	args := m.Called(ctx, resource, from, to)
	return args.Get(0).([]domain.CalendarEvent), args.Error(1)
}
func (m *MockCalendarEventRepo) List(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.CalendarEvent), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, recipient string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, recipient, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id int32, recipient string) error {
	args := m.Called(ctx, id, recipient)
	return args.Error(0)
}

// MockAuditLogRepo
type MockAuditLogRepo struct {
	mock.Mock
}

func (m *MockAuditLogRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAuditLogRepo) ListByEntity(ctx context.Context, entityType string, entityID int32) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, entityType, entityID)
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendSubmissionReceipt(ctx context.Context, to, displayName string) error {
	args := m.Called(ctx, to, displayName)
	return args.Error(0)
}
func (m *MockEmailService) SendApprovalRequest(ctx context.Context, to, displayName, approveURL, rejectURL string) error {
	args := m.Called(ctx, to, displayName, approveURL, rejectURL)
	return args.Error(0)
}
func (m *MockEmailService) SendDecisionNotification(ctx context.Context, to, displayName string, approved bool, reason string) error {
	args := m.Called(ctx, to, displayName, approved, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendConflictAlert(ctx context.Context, to, displayName string, conflicts []domain.CalendarEvent) error {
	args := m.Called(ctx, to, displayName, conflicts)
	return args.Error(0)
}
func (m *MockEmailService) SendCancellationNotification(ctx context.Context, to, displayName, reason string) error {
	args := m.Called(ctx, to, displayName, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendPendingReminder(ctx context.Context, to string, displayNames []string) error {
	args := m.Called(ctx, to, displayNames)
	return args.Error(0)
}

// MockCalendarService
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) Schedule(ctx context.Context, req *domain.BookingRequest) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}
func (m *MockCalendarService) CancelEvent(ctx context.Context, eventID int32) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
func (m *MockCalendarService) EventForRequest(ctx context.Context, requestID int32) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}
func (m *MockCalendarService) ListEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.CalendarEvent), args.Error(1)
}
func (m *MockCalendarService) ListEventsByResource(ctx context.Context, resource string, from, to time.Time) ([]domain.CalendarEvent, error) {
	args := m.Called(ctx, resource, from, to)
	return args.Get(0).([]domain.CalendarEvent), args.Error(1)
}

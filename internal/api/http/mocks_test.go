package http_test

import (
	"context"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) SubmitViaPublicLink(ctx context.Context, token string, form service.SubmissionForm) (*domain.BookingRequest, error) {
	args := m.Called(ctx, token, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingService) SubmitInternal(ctx context.Context, actor domain.Actor, form service.SubmissionForm) (*domain.BookingRequest, error) {
	args := m.Called(ctx, actor, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingService) RedeemApprovalToken(ctx context.Context, token, reason string) (*service.DecisionOutcome, error) {
	args := m.Called(ctx, token, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DecisionOutcome), args.Error(1)
}
func (m *MockBookingService) CancelBooking(ctx context.Context, actor domain.Actor, requestID int32, reason string) error {
	args := m.Called(ctx, actor, requestID, reason)
	return args.Error(0)
}
func (m *MockBookingService) EditPending(ctx context.Context, actor domain.Actor, requestID int32, edits service.EditForm) (*domain.BookingRequest, error) {
	args := m.Called(ctx, actor, requestID, edits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingService) Reschedule(ctx context.Context, actor domain.Actor, requestID int32, startDate, endDate string) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, actor, requestID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}
func (m *MockBookingService) GetRequest(ctx context.Context, requestID int32) (*domain.BookingRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingService) ListRequests(ctx context.Context, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.BookingRequest), args.Get(1).(int32), args.Error(2)
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

// MockLinkService
type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) IssueLink(ctx context.Context, actor domain.Actor) (*domain.PublicLink, string, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.PublicLink), args.String(1), args.Error(2)
}
func (m *MockLinkService) ValidateLink(ctx context.Context, token string) (*domain.PublicLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicLink), args.Error(1)
}

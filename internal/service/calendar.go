package service

import (
	"context"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/repository"
)

// defaultResource is used when a request carries no category classification
const defaultResource = "main"

type calendarService struct {
	eventRepo repository.CalendarEventRepository
}

func NewCalendarService(eventRepo repository.CalendarEventRepository) CalendarService {
	return &calendarService{eventRepo: eventRepo}
}

// resourceFor maps a request onto its schedulable channel. The category is
// the channel; uncategorized requests share the main calendar.
func resourceFor(req *domain.BookingRequest) string {
	if req.Category == "" {
		return defaultResource
	}
	return req.Category
}

// candidateWindow converts the inclusive requested date range into half-open
// UTC day-unit instants, so back-to-back bookings sharing a boundary date
// do not conflict
func candidateWindow(req *domain.BookingRequest) (time.Time, time.Time, error) {
	start, end, err := domain.ValidateDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start.UTC(), end.UTC().AddDate(0, 0, 1), nil
}

func (s *calendarService) Schedule(ctx context.Context, req *domain.BookingRequest) (*domain.CalendarEvent, error) {
	start, end, err := candidateWindow(req)
	if err != nil {
		return nil, err
	}

	event := &domain.CalendarEvent{
		BookingRequestID: req.ID,
		Resource:         resourceFor(req),
		StartAt:          start,
		EndAt:            end,
	}

	conflicts, err := s.eventRepo.CreateIfFree(ctx, event)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &domain.SchedulingConflictError{
			Resource:  event.Resource,
			Conflicts: conflicts,
		}
	}
	return event, nil
}

func (s *calendarService) CancelEvent(ctx context.Context, eventID int32) error {
	return s.eventRepo.Cancel(ctx, eventID)
}

func (s *calendarService) EventForRequest(ctx context.Context, requestID int32) (*domain.CalendarEvent, error) {
	return s.eventRepo.GetByRequest(ctx, requestID)
}

func (s *calendarService) ListEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error) {
	return s.eventRepo.List(ctx, from, to)
}

func (s *calendarService) ListEventsByResource(ctx context.Context, resource string, from, to time.Time) ([]domain.CalendarEvent, error) {
	return s.eventRepo.ListByResource(ctx, resource, from, to)
}

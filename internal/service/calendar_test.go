package service_test

import (
	"context"
	"testing"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCalendarService_Schedule(t *testing.T) {
	mockRepo := new(MockCalendarEventRepo)
	svc := service.NewCalendarService(mockRepo)
	ctx := context.Background()

	req := &domain.BookingRequest{
		ID:        42,
		Category:  "restaurants",
		StartDate: "2026-10-01",
		EndDate:   "2026-10-07",
	}

	mockRepo.On("CreateIfFree", ctx, mock.AnythingOfType("*domain.CalendarEvent")).
		Run(func(args mock.Arguments) {
			event := args.Get(1).(*domain.CalendarEvent)
			event.ID = 9
		}).Return([]domain.CalendarEvent{}, nil)

	event, err := svc.Schedule(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int32(9), event.ID)
	assert.Equal(t, "restaurants", event.Resource)

	// Inclusive dates become a half-open window one day past the end date
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), event.StartAt)
	assert.Equal(t, time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC), event.EndAt)
	mockRepo.AssertExpectations(t)
}

func TestCalendarService_Schedule_DefaultResource(t *testing.T) {
	mockRepo := new(MockCalendarEventRepo)
	svc := service.NewCalendarService(mockRepo)
	ctx := context.Background()

	req := &domain.BookingRequest{ID: 42, StartDate: "2026-10-01", EndDate: "2026-10-01"}

	mockRepo.On("CreateIfFree", ctx, mock.AnythingOfType("*domain.CalendarEvent")).
		Return([]domain.CalendarEvent{}, nil)

	event, err := svc.Schedule(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "main", event.Resource)

	// A single-day booking occupies exactly one day unit
	assert.Equal(t, 24*time.Hour, event.EndAt.Sub(event.StartAt))
	mockRepo.AssertExpectations(t)
}

func TestCalendarService_Schedule_Conflict(t *testing.T) {
	mockRepo := new(MockCalendarEventRepo)
	svc := service.NewCalendarService(mockRepo)
	ctx := context.Background()

	req := &domain.BookingRequest{ID: 42, StartDate: "2026-10-01", EndDate: "2026-10-07"}
	occupying := []domain.CalendarEvent{{ID: 5, Resource: "main"}}

	mockRepo.On("CreateIfFree", ctx, mock.AnythingOfType("*domain.CalendarEvent")).
		Return(occupying, nil)

	_, err := svc.Schedule(ctx, req)
	var conflict *domain.SchedulingConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "main", conflict.Resource)
	assert.Len(t, conflict.Conflicts, 1)
	mockRepo.AssertExpectations(t)
}

func TestCalendarService_Schedule_BadDates(t *testing.T) {
	mockRepo := new(MockCalendarEventRepo)
	svc := service.NewCalendarService(mockRepo)

	req := &domain.BookingRequest{ID: 42, StartDate: "2026-10-07", EndDate: "2026-10-01"}

	_, err := svc.Schedule(context.Background(), req)
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockRepo.AssertNotCalled(t, "CreateIfFree", mock.Anything, mock.Anything)
}

func TestCalendarService_CancelEvent(t *testing.T) {
	mockRepo := new(MockCalendarEventRepo)
	svc := service.NewCalendarService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Cancel", ctx, int32(9)).Return(nil)

	err := svc.CancelEvent(ctx, 9)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

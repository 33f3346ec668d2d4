package domain

import "time"

type EventStatus string

const (
	EventStatusScheduled EventStatus = "SCHEDULED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

type CalendarEvent struct {
	ID               int32       `json:"id"`
	BookingRequestID int32       `json:"booking_request_id"`
	Resource         string      `json:"resource"`
	StartAt          time.Time   `json:"start_at"`
	EndAt            time.Time   `json:"end_at"`
	Status           EventStatus `json:"status"`
	CreatedOn        time.Time   `json:"created_on"`
	UpdatedOn        time.Time   `json:"updated_on"`
}

// Overlaps uses half-open interval semantics: back-to-back events sharing
// only an endpoint do not conflict
func (e *CalendarEvent) Overlaps(start, end time.Time) bool {
	return e.StartAt.Before(end) && start.Before(e.EndAt)
}

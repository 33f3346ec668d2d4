package domain

import "time"

// AuditEntry records who did what to which entity. Entries are append-only;
// rejected and cancelled requests stay queryable through them.
type AuditEntry struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int32     `json:"entity_id"`
	Before     string    `json:"before,omitempty"`
	After      string    `json:"after,omitempty"`
	CreatedOn  time.Time `json:"created_on"`
}

const (
	AuditEntityBookingRequest = "booking_request"
	AuditEntityCalendarEvent  = "calendar_event"
	AuditEntityPublicLink     = "public_link"
)

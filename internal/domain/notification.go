package domain

import "time"

// Notification is an operator-facing inbox entry persisted alongside the
// email dispatched to the external collaborator
type Notification struct {
	ID         int32             `json:"id"`
	Recipient  string            `json:"recipient"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	IsRead     bool              `json:"is_read"`
	CreatedOn  time.Time         `json:"created_on"`
}

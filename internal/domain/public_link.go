package domain

import "time"

// PublicLink is a single-use credential letting an unauthenticated merchant
// submit exactly one booking request
type PublicLink struct {
	ID               int32      `json:"id"`
	Token            string     `json:"token"`
	BookingRequestID *int32     `json:"booking_request_id,omitempty"`
	IsUsed           bool       `json:"is_used"`
	ExpiresOn        *time.Time `json:"expires_on,omitempty"`
	CreatedBy        string     `json:"created_by"`
	CreatedOn        time.Time  `json:"created_on"`
}

// Check reports the first failed invariant for a presented link, or nil when
// the link is still consumable
func (l *PublicLink) Check(now time.Time) error {
	if l.IsUsed {
		return ErrLinkAlreadyUsed
	}
	if l.ExpiresOn != nil && l.ExpiresOn.Before(now) {
		return ErrLinkExpired
	}
	return nil
}

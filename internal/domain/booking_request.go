package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

type BookingStatus string

const (
	BookingStatusDraft     BookingStatus = "DRAFT"
	BookingStatusSubmitted BookingStatus = "SUBMITTED"
	BookingStatusApproved  BookingStatus = "APPROVED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// DateFormat is the wire format for requested date ranges
const DateFormat = "2006-01-02"

// PricingOption is one proposed deal option. Options are ordered; the first
// one names the request in listings.
type PricingOption struct {
	Title      string `json:"title"`
	PriceCents int32  `json:"price_cents"`
	Terms      string `json:"terms"`
}

type BookingRequest struct {
	ID              int32           `json:"id"`
	MerchantName    string          `json:"merchant_name"`
	ContactEmail    string          `json:"contact_email"`
	ContactPhone    string          `json:"contact_phone"`
	PricingOptions  []PricingOption `json:"pricing_options"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	SequenceNumber  int32           `json:"sequence_number"`
	Status          BookingStatus   `json:"status"`
	NeedsResolution bool            `json:"needs_resolution"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}

// IsTerminal reports whether no further automatic transitions exist
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled
}

type ApprovalAction string

const (
	ApprovalActionApprove ApprovalAction = "approve"
	ApprovalActionReject  ApprovalAction = "reject"
)

// ApplyDecision is the pure transition for an approval-token redemption.
// A request that already left SUBMITTED returns ErrAlreadyResolved so callers
// never re-apply side effects.
func ApplyDecision(current BookingStatus, action ApprovalAction) (BookingStatus, error) {
	if current != BookingStatusSubmitted {
		return current, ErrAlreadyResolved
	}
	switch action {
	case ApprovalActionApprove:
		return BookingStatusApproved, nil
	case ApprovalActionReject:
		return BookingStatusRejected, nil
	default:
		return current, fmt.Errorf("%w: unknown action %q", ErrTokenInvalid, action)
	}
}

// ValidateDateRange parses the requested range and enforces start <= end
func ValidateDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(DateFormat, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("start_date", "must be YYYY-MM-DD")
	}
	end, err := time.Parse(DateFormat, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("end_date", "must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, NewValidationError("end_date", "must not be before start_date")
	}
	return start, end, nil
}

// displayNamePattern matches "<merchant> #<seq> - <option title>". The greedy
// first group pins the match to the last " #<digits> - " in the string, which
// is the composed separator as long as option titles never contain one; see
// TitleEmbedsDisplaySeparator.
var displayNamePattern = regexp.MustCompile(`^(.*) #(\d+) - (.*)$`)

var titleSeparatorPattern = regexp.MustCompile(` #\d+ - `)

// TitleEmbedsDisplaySeparator reports whether an option title contains the
// " #<digits> - " separator. Such a title would make the composed display
// name split at the wrong place, so validation rejects it.
func TitleEmbedsDisplaySeparator(title string) bool {
	return titleSeparatorPattern.MatchString(title)
}

// ComposeDisplayName builds the listing name from merchant name, the
// per-merchant sequence number, and the first pricing option title
func ComposeDisplayName(merchantName string, sequence int32, firstOptionTitle string) string {
	return fmt.Sprintf("%s #%d - %s", merchantName, sequence, firstOptionTitle)
}

// DisplayName returns the derived listing name for the request
func (b *BookingRequest) DisplayName() string {
	title := ""
	if len(b.PricingOptions) > 0 {
		title = b.PricingOptions[0].Title
	}
	return ComposeDisplayName(b.MerchantName, b.SequenceNumber, title)
}

// ExtractBusinessName recovers the merchant name from a composed display name
func ExtractBusinessName(displayName string) string {
	m := displayNamePattern.FindStringSubmatch(displayName)
	if m == nil {
		return displayName
	}
	return m[1]
}

// ExtractRequestNumber recovers the sequence number from a composed display
// name; zero means the name was not composed by ComposeDisplayName
func ExtractRequestNumber(displayName string) int32 {
	m := displayNamePattern.FindStringSubmatch(displayName)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseInt(m[2], 10, 32)
	if err != nil {
		return 0
	}
	return int32(n)
}

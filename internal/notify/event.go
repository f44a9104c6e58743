package notify

import "time"

type EventType string

const (
	BookingRequested EventType = "booking.requested"
	BookingConfirmed EventType = "booking.confirmed"
	BookingCancelled EventType = "booking.cancelled"
	BookingCompleted EventType = "booking.completed"
	BookingNoShow    EventType = "booking.no_show"
	BookingReopened  EventType = "booking.reopened"
	ReceiptSubmitted EventType = "receipt.submitted"
	ReceiptApproved  EventType = "receipt.approved"
	ReceiptRejected  EventType = "receipt.rejected"
	MessageReceived  EventType = "message.received"
	ReviewPublished  EventType = "review.published"
)

// Event is one notification addressed to a single user. It is the JSON
// payload of the notifications topic.
type Event struct {
	Type EventType `json:"type"`

	RecipientID    uint   `json:"recipient_id"`
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`

	BookingID uint              `json:"booking_id,omitempty"`
	Data      map[string]string `json:"data,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// Key partitions events per recipient so one user's mail stays ordered.
func (e Event) Key() string {
	return e.RecipientEmail
}

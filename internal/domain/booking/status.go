package booking

import "github.com/BruksfildServices01/tutor-marketplace/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// IsActive reports whether a booking in status s still occupies its slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses are the statuses that block an overlapping booking.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Payment Status
// ===============================

type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "UNPAID"
	PaymentSubmitted PaymentStatus = "SUBMITTED"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentRejected  PaymentStatus = "REJECTED"
)

// CanSubmitReceipt reports whether a receipt may be uploaded for the booking.
func CanSubmitReceipt(status Status, payment PaymentStatus) error {
	if status == StatusCancelled {
		return httperr.ErrBusiness("booking_cancelled")
	}
	if payment == PaymentPaid {
		return httperr.ErrBusiness("already_paid")
	}
	return nil
}

// ===============================
// Receipt Status
// ===============================

type ReceiptStatus string

const (
	ReceiptPending  ReceiptStatus = "PENDING"
	ReceiptApproved ReceiptStatus = "APPROVED"
	ReceiptRejected ReceiptStatus = "REJECTED"
)

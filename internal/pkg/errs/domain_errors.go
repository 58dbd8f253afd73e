package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Cabin errors
	ErrCabinNotFound = errors.New("cabin not found")

	// Booking errors
	ErrBookingNotFound = errors.New("booking not found")
	ErrDateConflict    = errors.New("date conflict")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrHoldExpired     = errors.New("hold expired")
	ErrNotPending      = errors.New("booking is not pending")
	ErrNotCanceled     = errors.New("booking is not canceled")

	// Payment errors
	ErrAlreadyOrdered     = errors.New("payment order already opened")
	ErrAlreadyFinalized   = errors.New("booking already finalized")
	ErrLateConfirmation   = errors.New("payment confirmed after hold was finalized")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrSignatureInvalid   = errors.New("webhook signature invalid")
	ErrOrderNotFound      = errors.New("payment order not found")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

// ConflictError carries the booking that blocks a proposed date range so the
// caller can explain the rejection.
type ConflictError struct {
	BookingID string
}

func (e *ConflictError) Error() string {
	return "date range conflicts with booking " + e.BookingID
}

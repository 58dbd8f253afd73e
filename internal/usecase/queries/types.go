package queries

import (
	"time"

	"cabin-booking/internal/domain/availability"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID          uuid.UUID   `json:"id"`
	CabinID     uuid.UUID   `json:"cabin_id"`
	CabinName   string      `json:"cabin_name"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Nights      int         `json:"nights"`
	PartySize   int         `json:"party_size"`
	JacuzziDays []time.Time `json:"jacuzzi_days"`
	Status      string      `json:"status"`
	StatusLabel string      `json:"status_label"`
	Total       int64       `json:"total"`
	GuestName   string      `json:"guest_name"`
	GuestEmail  string      `json:"guest_email"`
	GuestPhone  string      `json:"guest_phone,omitempty"`
	ExpiresAt   time.Time   `json:"expires_at"`
	OrderRef    *string     `json:"order_ref,omitempty"`
	NeedsReview bool        `json:"needs_review"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type BookingListItem struct {
	ID          uuid.UUID `json:"id"`
	CabinID     uuid.UUID `json:"cabin_id"`
	CabinName   string    `json:"cabin_name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	Total       int64     `json:"total"`
	GuestName   string    `json:"guest_name"`
	NeedsReview bool      `json:"needs_review"`
	CreatedAt   time.Time `json:"created_at"`
}

type ConflictCheck struct {
	Available            bool       `json:"available"`
	Blocked              bool       `json:"blocked,omitempty"`
	ConflictingBookingID *uuid.UUID `json:"conflicting_booking_id,omitempty"`
}

type CalendarView struct {
	CabinID uuid.UUID                         `json:"cabin_id"`
	Year    int                               `json:"year"`
	Month   int                               `json:"month"`
	Days    map[string]availability.DayStatus `json:"days"`
}

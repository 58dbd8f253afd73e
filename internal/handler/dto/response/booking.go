package response

import (
	"time"

	"cabin-booking/internal/usecase/queries"
)

const dateLayout = "2006-01-02"

type BookingResponse struct {
	ID          string   `json:"id"`
	CabinID     string   `json:"cabin_id"`
	CabinName   string   `json:"cabin_name"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Nights      int      `json:"nights"`
	PartySize   int      `json:"party_size"`
	JacuzziDays []string `json:"jacuzzi_days"`
	Status      string   `json:"status"`
	StatusLabel string   `json:"status_label"`
	Total       int64    `json:"total"`
	GuestName   string   `json:"guest_name"`
	GuestEmail  string   `json:"guest_email"`
	GuestPhone  string   `json:"guest_phone,omitempty"`
	ExpiresAt   string   `json:"expires_at"`
	OrderRef    *string  `json:"order_ref,omitempty"`
	NeedsReview bool     `json:"needs_review"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	days := make([]string, len(v.JacuzziDays))
	for i, d := range v.JacuzziDays {
		days[i] = d.Format(dateLayout)
	}
	return &BookingResponse{
		ID:          v.ID.String(),
		CabinID:     v.CabinID.String(),
		CabinName:   v.CabinName,
		StartDate:   v.StartDate.Format(dateLayout),
		EndDate:     v.EndDate.Format(dateLayout),
		Nights:      v.Nights,
		PartySize:   v.PartySize,
		JacuzziDays: days,
		Status:      v.Status,
		StatusLabel: v.StatusLabel,
		Total:       v.Total,
		GuestName:   v.GuestName,
		GuestEmail:  v.GuestEmail,
		GuestPhone:  v.GuestPhone,
		ExpiresAt:   v.ExpiresAt.Format(time.RFC3339),
		OrderRef:    v.OrderRef,
		NeedsReview: v.NeedsReview,
		CreatedAt:   v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   v.UpdatedAt.Format(time.RFC3339),
	}
}

type BookingListResponse struct {
	ID          string `json:"id"`
	CabinID     string `json:"cabin_id"`
	CabinName   string `json:"cabin_name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	Total       int64  `json:"total"`
	GuestName   string `json:"guest_name"`
	NeedsReview bool   `json:"needs_review"`
	CreatedAt   string `json:"created_at"`
}

func FromBookingListItem(it *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:          it.ID.String(),
		CabinID:     it.CabinID.String(),
		CabinName:   it.CabinName,
		StartDate:   it.StartDate.Format(dateLayout),
		EndDate:     it.EndDate.Format(dateLayout),
		Status:      it.Status,
		Total:       it.Total,
		GuestName:   it.GuestName,
		NeedsReview: it.NeedsReview,
		CreatedAt:   it.CreatedAt.Format(time.RFC3339),
	}
}

type CalendarResponse struct {
	CabinID string            `json:"cabin_id"`
	Year    int               `json:"year"`
	Month   int               `json:"month"`
	Days    map[string]string `json:"days"`
}

func FromCalendarView(v *queries.CalendarView) *CalendarResponse {
	days := make(map[string]string, len(v.Days))
	for day, status := range v.Days {
		days[day] = string(status)
	}
	return &CalendarResponse{
		CabinID: v.CabinID.String(),
		Year:    v.Year,
		Month:   v.Month,
		Days:    days,
	}
}

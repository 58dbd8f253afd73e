package request

import (
	"time"

	"cabin-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type GuestRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=40"`
}

type CreateBookingRequest struct {
	CabinID     uuid.UUID    `json:"cabin_id" binding:"required"`
	StartDate   string       `json:"start_date" binding:"required"`
	EndDate     string       `json:"end_date" binding:"required"`
	PartySize   int          `json:"party_size" binding:"required,min=1"`
	JacuzziDays []string     `json:"jacuzzi_days" binding:"omitempty,max=62"`
	Guest       GuestRequest `json:"guest" binding:"required"`
}

func (r *CreateBookingRequest) ParseDates() (start, end time.Time, jacuzzi []time.Time, err error) {
	start, err = parseDate(r.StartDate)
	if err != nil {
		return
	}
	end, err = parseDate(r.EndDate)
	if err != nil {
		return
	}
	jacuzzi = make([]time.Time, 0, len(r.JacuzziDays))
	for _, s := range r.JacuzziDays {
		var d time.Time
		if d, err = parseDate(s); err != nil {
			return
		}
		jacuzzi = append(jacuzzi, d)
	}
	return
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errs.Wrap(err, "invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}

// WebhookRequest carries the gateway's form-encoded notification. Only the
// fields the engine verifies and acts on are bound; extra fields are ignored.
type WebhookRequest struct {
	Token     string `form:"token" binding:"required"`
	Signature string `form:"signature" binding:"required"`
}

package api

import (
	"net/http"

	"cabin-booking/internal/domain/booking"
	reqdto "cabin-booking/internal/handler/dto/request"
	resdto "cabin-booking/internal/handler/dto/response"
	"cabin-booking/internal/handler/httperr"
	"cabin-booking/internal/usecase/commands"
	"cabin-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	holds    commands.HoldCommands
	bookings queries.BookingQueries
}

func NewBookingHandler(holds commands.HoldCommands, bookings queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		holds:    holds,
		bookings: bookings,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	start, end, jacuzzi, err := req.ParseDates()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	view, err := h.holds.CreateHold(c.Request.Context(), commands.CreateHoldInput{
		CabinID:     req.CabinID,
		StartDate:   start,
		EndDate:     end,
		PartySize:   req.PartySize,
		JacuzziDays: jacuzzi,
		Guest: booking.Guest{
			Name:  req.Guest.Name,
			Email: req.Guest.Email,
			Phone: req.Guest.Phone,
		},
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

package api

import (
	"net/http"
	"strconv"

	resdto "cabin-booking/internal/handler/dto/response"
	"cabin-booking/internal/handler/httperr"
	"cabin-booking/internal/handler/middleware"
	"cabin-booking/internal/usecase/commands"
	"cabin-booking/internal/usecase/queries"
	"cabin-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	holds    commands.HoldCommands
	payments commands.PaymentCommands
	sweeps   commands.SweepCommands
	bookings queries.BookingQueries
}

func NewAdminHandler(
	holds commands.HoldCommands,
	payments commands.PaymentCommands,
	sweeps commands.SweepCommands,
	bookings queries.BookingQueries,
) *AdminHandler {
	return &AdminHandler{
		holds:    holds,
		payments: payments,
		sweeps:   sweeps,
		bookings: bookings,
	}
}

func (h *AdminHandler) ListBookings(c *gin.Context) {
	limit := queryInt32(c, "limit", 50)
	offset := queryInt32(c, "offset", 0)

	items, err := h.bookings.ListAdmin(c.Request.Context(), limit, offset)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, it := range items {
		response[i] = resdto.FromBookingListItem(it)
	}
	c.JSON(http.StatusOK, response)
}

// ConfirmBooking applies a payment confirmation under operator authority,
// for cases where the gateway's notification never arrived.
func (h *AdminHandler) ConfirmBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	if err := h.payments.ConfirmManually(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		respondDomainError(c, err)
		return
	}

	view, err := h.bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *AdminHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	if err := h.holds.CancelHold(c.Request.Context(), id, shared.SourceManual); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "canceled"})
}

func (h *AdminHandler) ReopenBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.holds.ReopenHold(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// Sweep triggers one expiry pass. It also runs on a timer; this endpoint
// exists for operational runs and for external schedulers.
func (h *AdminHandler) Sweep(c *gin.Context) {
	result, err := h.sweeps.Sweep(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func queryInt32(c *gin.Context, key string, fallback int32) int32 {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return fallback
	}
	return int32(v)
}

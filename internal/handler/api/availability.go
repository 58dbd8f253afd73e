package api

import (
	"net/http"
	"strconv"
	"time"

	resdto "cabin-booking/internal/handler/dto/response"
	"cabin-booking/internal/handler/httperr"
	"cabin-booking/internal/pkg/errs"
	"cabin-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

func (h *AvailabilityHandler) GetCalendar(c *gin.Context) {
	cabinID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cabin ID format", nil)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("year query parameter required"), "Invalid year", nil)
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("month query parameter required"), "Invalid month", nil)
		return
	}

	view, err := h.availability.MonthCalendar(c.Request.Context(), cabinID, year, month)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCalendarView(view))
}

// CheckAvailability answers whether a proposed stay is currently free. It is
// advisory only; the hold insert re-checks atomically.
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	cabinID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cabin ID format", nil)
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("start query parameter required (YYYY-MM-DD)"), "Invalid start date", nil)
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("end query parameter required (YYYY-MM-DD)"), "Invalid end date", nil)
		return
	}

	check, err := h.availability.CheckConflict(c.Request.Context(), cabinID, start, end)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

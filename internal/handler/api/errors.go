package api

import (
	"errors"
	"net/http"

	"cabin-booking/internal/domain/booking"
	"cabin-booking/internal/handler/httperr"
	"cabin-booking/internal/pkg/errs"
	"cabin-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// respondDomainError maps usecase sentinels onto the HTTP surface. A date
// conflict carries the blocking booking id when it could be resolved.
// Matching goes through errs.Is: the usecase layer attaches sentinels as
// marks, which the standard library's errors.Is does not follow.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrCabinNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Cabin not found", nil)
	case errs.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errs.Is(err, errs.ErrOrderNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Payment order not found", nil)
	case errs.Is(err, errs.ErrDateConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested dates are not available", conflictDetail(err))
	case errs.Is(err, errs.ErrInvalidRange), errs.Is(err, queries.ErrInvalidMonth):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date range", nil)
	case errs.Is(err, booking.ErrCapacityExceeded),
		errs.Is(err, booking.ErrInvalidJacuzziDay),
		errs.Is(err, errs.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed", gin.H{"reason": err.Error()})
	case errs.Is(err, errs.ErrHoldExpired):
		httperr.AbortWithError(c, http.StatusGone, err, "Hold has expired", nil)
	case errs.Is(err, errs.ErrNotPending):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is not pending", nil)
	case errs.Is(err, errs.ErrNotCanceled):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is not canceled", nil)
	case errs.Is(err, errs.ErrAlreadyOrdered):
		httperr.AbortWithError(c, http.StatusConflict, err, "Payment order already opened", nil)
	case errs.Is(err, errs.ErrAlreadyFinalized):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking already finalized", nil)
	case errs.Is(err, errs.ErrLateConfirmation):
		httperr.AbortWithError(c, http.StatusConflict, err, "Payment confirmed after hold was finalized; flagged for review", nil)
	case errs.Is(err, errs.ErrSignatureInvalid):
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid signature", nil)
	case errs.Is(err, errs.ErrGatewayUnavailable):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func conflictDetail(err error) any {
	var conflict *errs.ConflictError
	if errors.As(err, &conflict) {
		return gin.H{"conflicting_booking_id": conflict.BookingID}
	}
	return nil
}

package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/srgjo27/seatlock/internal/core/domain"
)

type errorBody struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	SeatIDs []string `json:"seat_ids,omitempty"`
}

type errorKind struct {
	err    error
	status int
	code   string
}

// Order matters only for errors that wrap more than one sentinel.
var errorKinds = []errorKind{
	{domain.ErrInvalidRequest, http.StatusBadRequest, "invalid-request"},
	{domain.ErrReservationInProgress, http.StatusConflict, "lock-held"},
	{domain.ErrSeatAlreadyBooked, http.StatusConflict, "already-booked"},
	{domain.ErrInsufficientCapacity, http.StatusConflict, "insufficient-capacity"},
	{domain.ErrBookingNotConfirmable, http.StatusConflict, "not-confirmable"},
	{domain.ErrBookingNotCancellable, http.StatusConflict, "not-cancellable"},
	{domain.ErrTransactionConflict, http.StatusConflict, "transaction-conflict"},
	{domain.ErrShowNotFound, http.StatusNotFound, "show-not-found"},
	{domain.ErrSeatNotFound, http.StatusNotFound, "seat-not-found"},
	{domain.ErrBookingNotFound, http.StatusNotFound, "booking-not-found"},
	{domain.ErrNotBookingOwner, http.StatusForbidden, "not-owner"},
	{domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage-unavailable"},
	{domain.ErrLockServiceUnavailable, http.StatusServiceUnavailable, "lock-unavailable"},
}

// writeError maps a service error to its stable status and code. The
// response carries the sentinel's text only, never the wrapped detail.
func writeError(c echo.Context, err error) error {
	for _, k := range errorKinds {
		if !errors.Is(err, k.err) {
			continue
		}

		body := errorBody{Error: k.err.Error(), Code: k.code}

		var seatsErr *domain.SeatsError
		if errors.As(err, &seatsErr) {
			for _, id := range seatsErr.SeatIDs {
				body.SeatIDs = append(body.SeatIDs, id.String())
			}
		}

		if k.status == http.StatusServiceUnavailable {
			log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
		}

		return c.JSON(k.status, body)
	}

	log.Printf("handler: %s %s: unexpected error: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error", Code: "internal"})
}

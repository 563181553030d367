package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/srgjo27/seatlock/internal/core/domain"
	"github.com/srgjo27/seatlock/internal/core/services"
)

type ReservationService interface {
	Reserve(ctx context.Context, req services.ReserveRequest) (*services.Reservation, error)
	Confirm(ctx context.Context, bookingID, userID uuid.UUID, paymentRef string) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID, userID uuid.UUID) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ExpiresIn(b *domain.Booking) time.Duration
}

type ShowService interface {
	SeatMap(ctx context.Context, showID uuid.UUID) (*domain.SeatMap, error)
}

type CreateBookingRequest struct {
	ShowID  string   `json:"show_id"`
	SeatIDs []string `json:"seat_ids"`
}

type ConfirmBookingRequest struct {
	PaymentRef string `json:"payment_ref"`
}

type BookingResponse struct {
	BookingID        string     `json:"booking_id"`
	ShowID           string     `json:"show_id"`
	SeatIDs          []string   `json:"seat_ids"`
	TotalAmountCents int64      `json:"total_amount_cents"`
	Status           string     `json:"status"`
	PaymentRef       *string    `json:"payment_ref,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	ExpiresInSeconds int64      `json:"expires_in_seconds"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
}

type BookingHandler struct {
	bookings ReservationService
	shows    ShowService
}

func NewBookingHandler(bookings ReservationService, shows ShowService) *BookingHandler {
	return &BookingHandler{bookings: bookings, shows: shows}
}

// Register mounts the booking API. Everything except /health requires a
// verified bearer token.
func (h *BookingHandler) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/health", Health)

	e.POST("/bookings", h.CreateBooking, auth)
	e.GET("/bookings", h.ListBookings, auth)
	e.GET("/bookings/:id", h.GetBooking, auth)
	e.POST("/bookings/:id/confirm", h.ConfirmBooking, auth)
	e.DELETE("/bookings/:id", h.CancelBooking, auth)
	e.GET("/shows/:id/seats", h.GetSeats, auth)
}

func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid json body", Code: "invalid-request"})
	}

	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid show id", Code: "invalid-request"})
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid seat id", Code: "invalid-request", SeatIDs: []string{raw}})
		}
		seatIDs = append(seatIDs, id)
	}

	res, err := h.bookings.Reserve(c.Request().Context(), services.ReserveRequest{
		UserID:  userID,
		ShowID:  showID,
		SeatIDs: seatIDs,
	})
	if err != nil {
		return writeError(c, err)
	}

	resp := toBookingResponse(res.Booking, res.ExpiresIn)
	return c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	userID, bookingID, ok, err := h.bookingTarget(c)
	if !ok {
		return err
	}

	var req ConfirmBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid json body", Code: "invalid-request"})
	}

	b, err := h.bookings.Confirm(c.Request().Context(), bookingID, userID, req.PaymentRef)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toBookingResponse(b, 0))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, bookingID, ok, err := h.bookingTarget(c)
	if !ok {
		return err
	}

	b, err := h.bookings.Cancel(c.Request().Context(), bookingID, userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toBookingResponse(b, 0))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, bookingID, ok, err := h.bookingTarget(c)
	if !ok {
		return err
	}

	b, err := h.bookings.GetBooking(c.Request().Context(), bookingID, userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toBookingResponse(b, h.bookings.ExpiresIn(b)))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bookings, err := h.bookings.ListBookings(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i], h.bookings.ExpiresIn(&bookings[i])))
	}

	return c.JSON(http.StatusOK, echo.Map{"bookings": resp})
}

func (h *BookingHandler) GetSeats(c echo.Context) error {
	showID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid show id", Code: "invalid-request"})
	}

	seatMap, err := h.shows.SeatMap(c.Request().Context(), showID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, seatMap)
}

// bookingTarget resolves the caller and the :id path parameter. When ok is
// false the response has already been written and err is its result.
func (h *BookingHandler) bookingTarget(c echo.Context) (userID, bookingID uuid.UUID, ok bool, err error) {
	userID, uerr := currentUser(c)
	if uerr != nil {
		return uuid.Nil, uuid.Nil, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bookingID, perr := uuid.Parse(c.Param("id"))
	if perr != nil {
		return uuid.Nil, uuid.Nil, false, c.JSON(http.StatusBadRequest, errorBody{Error: "invalid booking id", Code: "invalid-request"})
	}

	return userID, bookingID, true, nil
}

func toBookingResponse(b *domain.Booking, expiresIn time.Duration) BookingResponse {
	seats := make([]string, len(b.SeatIDs))
	for i, id := range b.SeatIDs {
		seats[i] = id.String()
	}

	return BookingResponse{
		BookingID:        b.ID.String(),
		ShowID:           b.ShowID.String(),
		SeatIDs:          seats,
		TotalAmountCents: b.TotalAmountCents,
		Status:           string(b.Status),
		PaymentRef:       b.PaymentRef,
		CreatedAt:        b.CreatedAt,
		ExpiresAt:        b.ExpiresAt,
		ExpiresInSeconds: int64(expiresIn / time.Second),
		ConfirmedAt:      b.ConfirmedAt,
	}
}

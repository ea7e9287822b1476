// Package handler contains the HTTP handlers. Handlers bind and
// validate requests, call into the service layer and translate domain
// errors into status codes; they never touch SQL directly.
package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/cineplaza/cinema-booking/internal/model"
    "github.com/cineplaza/cinema-booking/internal/service"
)

// bookingLister is the read path for customer booking lookups.  It is
// separate from the engine because phone search is a plain query with
// no reservation semantics.
type bookingLister interface {
    ListByPhone(ctx context.Context, phone string) ([]model.Booking, error)
}

// BookingHandler serves the hold and booking endpoints.
type BookingHandler struct {
    engine *service.ReservationEngine
    lister bookingLister
}

// NewBookingHandler wires the handler to the reservation engine.
func NewBookingHandler(engine *service.ReservationEngine, lister bookingLister) *BookingHandler {
    return &BookingHandler{engine: engine, lister: lister}
}

type holdRequest struct {
    Seats []seatReq `json:"seats"`
}

// HoldSeats handles POST /v1/showtimes/:id/hold.  Partial success is
// normal: the response lists which seats were locked and which failed,
// each failure naming its seat and reason.  201 when at least one seat
// was locked, 409 when every seat failed.
func (h *BookingHandler) HoldSeats(c echo.Context) error {
    showtimeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || showtimeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var req holdRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON body"})
    }
    seats, ok := toSeatKeys(req.Seats)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "each seat needs a row letter and a column >= 1"})
    }

    res, err := h.engine.RequestHold(c.Request().Context(), showtimeID, seats, sessionID(c))
    if err != nil {
        return writeDomainError(c, err)
    }
    status := http.StatusCreated
    if len(res.Locked) == 0 {
        status = http.StatusConflict
    }
    return c.JSON(status, res)
}

// ReleaseHold handles DELETE /v1/showtimes/:id/hold.  With a seat list
// in the body only those locks are dropped; with an empty body the
// session's every lock on the showtime goes.  Idempotent.
func (h *BookingHandler) ReleaseHold(c echo.Context) error {
    showtimeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || showtimeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var req holdRequest
    _ = c.Bind(&req) // empty body means release everything
    seats, ok := toSeatKeys(req.Seats)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "each seat needs a row letter and a column >= 1"})
    }

    released, err := h.engine.ReleaseHold(c.Request().Context(), showtimeID, seats, sessionID(c))
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"released": released})
}

type confirmRequest struct {
    ShowtimeID    uint64    `json:"showtime_id"`
    Seats         []seatReq `json:"seats"`
    CustomerName  string    `json:"customer_name"`
    CustomerPhone string    `json:"customer_phone"`
    CustomerEmail *string   `json:"customer_email"`
}

// CreateBooking handles POST /v1/bookings.  A hold is not required:
// the booking transaction itself is the final availability check.  On
// a seat conflict the 409 enumerates the seats that were taken and the
// request is not retried server-side.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    var req confirmRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON body"})
    }
    if req.ShowtimeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
    }
    name := strings.TrimSpace(req.CustomerName)
    phone := strings.TrimSpace(req.CustomerPhone)
    if name == "" || phone == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_name and customer_phone are required"})
    }
    seats, ok := toSeatKeys(req.Seats)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "each seat needs a row letter and a column >= 1"})
    }

    conf, err := h.engine.ConfirmBooking(c.Request().Context(), req.ShowtimeID, seats, service.CustomerInfo{
        Name:  name,
        Phone: phone,
        Email: req.CustomerEmail,
    }, sessionID(c))
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusCreated, conf)
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    booking, seats, err := h.engine.GetBooking(c.Request().Context(), id)
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": booking, "seats": seats})
}

// CancelBooking handles DELETE /v1/bookings/:id.  Cancelling returns
// the booking's seats to inventory; only confirmed bookings cancel.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    if err := h.engine.CancelBooking(c.Request().Context(), id); err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}

// ListBookings handles GET /v1/bookings?phone=...  Customers look up
// their history by the phone number used at purchase.
func (h *BookingHandler) ListBookings(c echo.Context) error {
    phone := strings.TrimSpace(c.QueryParam("phone"))
    if phone == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone query parameter is required"})
    }
    bookings, err := h.lister.ListByPhone(c.Request().Context(), phone)
    if err != nil {
        return writeDomainError(c, err)
    }
    if bookings == nil {
        bookings = []model.Booking{}
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

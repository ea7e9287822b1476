package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/cineplaza/cinema-booking/internal/middleware"
    "github.com/cineplaza/cinema-booking/internal/model"
    "github.com/cineplaza/cinema-booking/internal/repository"
)

// sessionID returns the lock session identity resolved by the
// SessionID middleware, falling back to the raw header so handlers
// stay usable in tests without the full chain.
func sessionID(c echo.Context) string {
    if v := c.Get("session_id"); v != nil {
        if s, ok := v.(string); ok && s != "" {
            return s
        }
    }
    return c.Request().Header.Get(middleware.HeaderSessionID)
}

// seatReq is the wire form of a seat reference.
type seatReq struct {
    Row string `json:"row"`
    Col uint32 `json:"col"`
}

// toSeatKeys normalizes and validates wire seats.  Rows are upper-cased
// single letters; zero columns are rejected.  The bool result is false
// when any entry is malformed.
func toSeatKeys(in []seatReq) ([]model.SeatKey, bool) {
    out := make([]model.SeatKey, 0, len(in))
    for _, s := range in {
        row := strings.ToUpper(strings.TrimSpace(s.Row))
        if row == "" || s.Col == 0 {
            return nil, false
        }
        out = append(out, model.SeatKey{Row: row, Col: s.Col})
    }
    return out, true
}

func seatFailures(seats []model.SeatKey, reason string) []repository.SeatFailure {
    out := make([]repository.SeatFailure, 0, len(seats))
    for _, s := range seats {
        out = append(out, repository.SeatFailure{Row: s.Row, Col: s.Col, Reason: reason})
    }
    return out
}

// writeDomainError maps the typed reservation failures onto HTTP
// responses.  Conflict responses always enumerate the specific seats
// that failed, never a bare "try again".
func writeDomainError(c echo.Context, err error) error {
    var unavailable *repository.SeatUnavailableError
    if errors.As(err, &unavailable) {
        return c.JSON(http.StatusConflict, echo.Map{
            "error":  "some seats are no longer available, please reselect",
            "failed": seatFailures(unavailable.Seats, repository.ReasonSeatBooked),
        })
    }
    var invalid *repository.InvalidSeatError
    if errors.As(err, &invalid) {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": "seats outside the room layout",
            "seats": invalid.Seats,
        })
    }
    switch {
    case errors.Is(err, repository.ErrEmptySeatList):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
    case errors.Is(err, repository.ErrShowtimeNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
    case errors.Is(err, repository.ErrRoomNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
    case errors.Is(err, repository.ErrMovieNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
    case errors.Is(err, repository.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, repository.ErrNotCancellable):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

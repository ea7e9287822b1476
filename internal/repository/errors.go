// Package repository defines error values shared across repositories.
// These sentinels let handlers and the reservation engine distinguish
// failure scenarios without inspecting raw database errors: storage
// error codes are translated here and never leak past this layer.
package repository

import (
    "errors"
    "fmt"
    "strings"

    "github.com/go-sql-driver/mysql"

    "github.com/cineplaza/cinema-booking/internal/model"
)

// ErrShowtimeNotFound indicates the referenced showtime does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrRoomNotFound indicates the referenced room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrMovieNotFound indicates the referenced movie does not exist.
var ErrMovieNotFound = errors.New("movie not found")

// ErrBookingNotFound indicates the referenced booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrEmptySeatList is returned when a hold or booking request names no
// seats after deduplication.
var ErrEmptySeatList = errors.New("empty seat list")

// ErrNotCancellable is returned when a status transition is requested
// on a booking that is not in a state permitting it, e.g. cancelling a
// booking that is already cancelled.  Handlers should translate this
// into an HTTP 409 response.
var ErrNotCancellable = errors.New("booking not cancellable")

// ErrSeatUnavailable is the sentinel matched by SeatUnavailableError.
// It signals that a confirmed booking already owns at least one of the
// requested seats; the caller must re-fetch availability before
// retrying, never retry the same selection blindly.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrInvalidSeat is the sentinel matched by InvalidSeatError.  It
// signals that a requested seat lies outside the room layout and is
// rejected before any write is attempted.
var ErrInvalidSeat = errors.New("invalid seat")

// Per-seat failure reasons reported on hold acquisition.  They always
// accompany the specific seat that failed so the UI can keep the seats
// that did succeed selected.
const (
    ReasonSeatHeld   = "seat already held"
    ReasonSeatBooked = "seat already booked"
)

// SeatUnavailableError reports which seats of a booking request are
// already owned by another confirmed booking.  It matches
// ErrSeatUnavailable through errors.Is.
type SeatUnavailableError struct {
    Seats []model.SeatKey
}

func (e *SeatUnavailableError) Error() string {
    return fmt.Sprintf("seat unavailable: %s", joinCodes(e.Seats))
}

// Is lets errors.Is(err, ErrSeatUnavailable) succeed on this type.
func (e *SeatUnavailableError) Is(target error) bool {
    return target == ErrSeatUnavailable
}

// InvalidSeatError reports which requested seats do not exist in the
// room layout.  It matches ErrInvalidSeat through errors.Is.
type InvalidSeatError struct {
    Seats []model.SeatKey
}

func (e *InvalidSeatError) Error() string {
    return fmt.Sprintf("invalid seat: %s", joinCodes(e.Seats))
}

// Is lets errors.Is(err, ErrInvalidSeat) succeed on this type.
func (e *InvalidSeatError) Is(target error) bool {
    return target == ErrInvalidSeat
}

func joinCodes(seats []model.SeatKey) string {
    codes := make([]string, 0, len(seats))
    for _, s := range seats {
        codes = append(codes, s.Code())
    }
    return strings.Join(codes, ", ")
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (1062).  The unique keys on seat_locks and booking_seats turn lost
// check-then-write races into this error, which the stores translate
// into the domain conflicts above.
func isDuplicateKey(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}

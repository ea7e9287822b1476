// Package service contains the seat reservation engine, the only
// component allowed to decide whether a seat is free.  It composes the
// lock store and the booking store behind explicit interfaces so tests
// can run the same protocol against in-memory fakes that enforce the
// identical uniqueness invariant.
package service

import (
    "context"
    "log"
    "time"

    "github.com/cineplaza/cinema-booking/internal/model"
    "github.com/cineplaza/cinema-booking/internal/queue"
    "github.com/cineplaza/cinema-booking/internal/repository"
)

// DefaultHoldTTL is how long a seat hold lives before it lapses.
const DefaultHoldTTL = 5 * time.Minute

// LockStore holds transient seat holds with an expiry.  All "who holds
// what" state lives in the store, never in the engine, so the protocol
// stays correct across multiple server processes.
type LockStore interface {
    SweepExpired(ctx context.Context) (int64, error)
    Acquire(ctx context.Context, showtimeID uint64, seats []model.SeatKey, sessionID string, ttl time.Duration) (*repository.AcquireResult, error)
    Release(ctx context.Context, showtimeID uint64, seats []model.SeatKey, sessionID string) (int64, error)
    ReleaseAllForShowtime(ctx context.Context, showtimeID uint64, sessionID string) ([]model.SeatKey, error)
    ReleaseAllForSession(ctx context.Context, sessionID string) (int64, error)
    ListActive(ctx context.Context, showtimeID uint64) ([]model.SeatLock, error)
}

// BookingStore durably converts seat requests into confirmed bookings
// and answers which seats live bookings occupy.
type BookingStore interface {
    CreateBooking(ctx context.Context, b *model.Booking, seats []model.BookingSeat) error
    SeatsByShowtime(ctx context.Context, showtimeID uint64) ([]model.BookingSeat, error)
    GetByID(ctx context.Context, id uint64) (*model.Booking, []model.BookingSeat, error)
    Cancel(ctx context.Context, id uint64, now time.Time) error
}

// ShowtimeProvider prices seats and validates showtime existence.
type ShowtimeProvider interface {
    GetByID(ctx context.Context, id uint64) (*model.Showtime, error)
}

// LayoutProvider answers which (row, col) pairs are real seats.
type LayoutProvider interface {
    GetLayout(ctx context.Context, roomID uint64) (*model.RoomLayout, error)
}

// EventPublisher emits domain events after state changes.  Publishing
// is best-effort: a broker failure never fails the booking.
type EventPublisher interface {
    PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// ReservationEngine orchestrates holds and confirmations.  It holds no
// in-process mutable state; the transactional stores are the only
// synchronization points.
type ReservationEngine struct {
    locks     LockStore
    bookings  BookingStore
    showtimes ShowtimeProvider
    layouts   LayoutProvider
    events    EventPublisher // optional
    holdTTL   time.Duration
}

// NewReservationEngine constructs an engine.  All store dependencies
// must be non-nil; events may be nil when no broker is configured.
func NewReservationEngine(locks LockStore, bookings BookingStore, showtimes ShowtimeProvider, layouts LayoutProvider, events EventPublisher) *ReservationEngine {
    if locks == nil || bookings == nil || showtimes == nil || layouts == nil {
        panic("nil store passed to NewReservationEngine")
    }
    return &ReservationEngine{
        locks:     locks,
        bookings:  bookings,
        showtimes: showtimes,
        layouts:   layouts,
        events:    events,
        holdTTL:   DefaultHoldTTL,
    }
}

// SetHoldTTL overrides the default hold lifetime.  Zero or negative
// values are ignored.
func (e *ReservationEngine) SetHoldTTL(d time.Duration) {
    if d > 0 {
        e.holdTTL = d
    }
}

// HoldResult reports the partial-success outcome of a hold request.
// Failures always name the specific seat and reason so the UI can keep
// the successful part of the selection.
type HoldResult struct {
    Locked    []model.SeatKey          `json:"locked"`
    Failed    []repository.SeatFailure `json:"failed"`
    ExpiresAt time.Time                `json:"expires_at"`
}

// RequestHold validates the seats against the room layout and delegates
// to the lock store.  Validation failures reject the whole request
// before any write; conflicts are reported per seat and are retriable
// by the user (pick other seats or wait for expiry).
func (e *ReservationEngine) RequestHold(ctx context.Context, showtimeID uint64, seats []model.SeatKey, sessionID string) (*HoldResult, error) {
    seats = model.DedupeSeats(seats)
    if len(seats) == 0 {
        return nil, repository.ErrEmptySeatList
    }
    st, err := e.showtimes.GetByID(ctx, showtimeID)
    if err != nil {
        return nil, err
    }
    layout, err := e.layouts.GetLayout(ctx, st.RoomID)
    if err != nil {
        return nil, err
    }
    if bad := layout.Invalid(seats); len(bad) > 0 {
        return nil, &repository.InvalidSeatError{Seats: bad}
    }
    if _, err := e.locks.SweepExpired(ctx); err != nil {
        return nil, err
    }
    res, err := e.locks.Acquire(ctx, showtimeID, seats, sessionID, e.holdTTL)
    if err != nil {
        return nil, err
    }
    // Report the expiry the store stamped, not a second reading of the
    // clock, so the response always matches the stored deadline.
    return &HoldResult{
        Locked:    res.Locked,
        Failed:    res.Failed,
        ExpiresAt: res.ExpiresAt,
    }, nil
}

// ReleaseHold releases this session's locks on the given seats, or all
// of its locks on the showtime when seats is empty.  Releasing locks
// that do not exist is not an error.
func (e *ReservationEngine) ReleaseHold(ctx context.Context, showtimeID uint64, seats []model.SeatKey, sessionID string) (int64, error) {
    seats = model.DedupeSeats(seats)
    if len(seats) == 0 {
        released, err := e.locks.ReleaseAllForShowtime(ctx, showtimeID, sessionID)
        return int64(len(released)), err
    }
    return e.locks.Release(ctx, showtimeID, seats, sessionID)
}

// ReleaseSession drops every lock a session holds, across showtimes.
// Used on logout and disconnect cleanup.
func (e *ReservationEngine) ReleaseSession(ctx context.Context, sessionID string) (int64, error) {
    return e.locks.ReleaseAllForSession(ctx, sessionID)
}

// CustomerInfo is the contact data recorded on a confirmed booking.
type CustomerInfo struct {
    Name  string
    Phone string
    Email *string
}

// BookingConfirmation is the success payload of ConfirmBooking.
type BookingConfirmation struct {
    BookingID  uint64 `json:"booking_id"`
    SeatCount  int    `json:"seat_count"`
    TotalCents uint32 `json:"total_cents"`
}

// ConfirmBooking promotes a seat selection into a permanent booking.
// A prior hold is an optimistic UI aid, not a prerequisite: the final
// availability check happens inside the booking store's transaction, so
// a confirmation with no lock at all is equally race-free.  On a seat
// conflict the error surfaces unchanged and is not retried — the same
// selection would fail identically; the client must re-fetch
// availability first.
func (e *ReservationEngine) ConfirmBooking(ctx context.Context, showtimeID uint64, seats []model.SeatKey, customer CustomerInfo, sessionID string) (*BookingConfirmation, error) {
    seats = model.DedupeSeats(seats)
    if len(seats) == 0 {
        return nil, repository.ErrEmptySeatList
    }
    st, err := e.showtimes.GetByID(ctx, showtimeID)
    if err != nil {
        return nil, err
    }
    layout, err := e.layouts.GetLayout(ctx, st.RoomID)
    if err != nil {
        return nil, err
    }
    if bad := layout.Invalid(seats); len(bad) > 0 {
        return nil, &repository.InvalidSeatError{Seats: bad}
    }

    // Flat pricing: every seat costs the showtime base price; the VIP
    // tag is display-only.
    rows := make([]model.BookingSeat, 0, len(seats))
    var total uint32
    for _, s := range seats {
        rows = append(rows, model.BookingSeat{
            ShowtimeID: showtimeID,
            Row:        s.Row,
            Col:        s.Col,
            SeatCode:   s.Code(),
            PriceCents: st.PriceCents,
            SeatType:   layout.SeatType(s),
        })
        total += st.PriceCents
    }
    booking := &model.Booking{
        ShowtimeID:    showtimeID,
        CustomerName:  customer.Name,
        CustomerPhone: customer.Phone,
        CustomerEmail: customer.Email,
        TotalCents:    total,
    }
    if err := e.bookings.CreateBooking(ctx, booking, rows); err != nil {
        return nil, err
    }

    // The booking itself now blocks the seats; the session's locks are
    // meaningless and released best-effort.
    if sessionID != "" {
        if _, err := e.locks.Release(ctx, showtimeID, seats, sessionID); err != nil {
            log.Printf("reservation: release locks after confirm failed: %v", err)
        }
    }
    if e.events != nil {
        codes := make([]string, 0, len(rows))
        for _, r := range rows {
            codes = append(codes, r.SeatCode)
        }
        ev := queue.BookingConfirmedEvent{
            BookingID:     booking.ID,
            ShowtimeID:    showtimeID,
            MovieTitle:    st.MovieTitle,
            CustomerName:  customer.Name,
            CustomerPhone: customer.Phone,
            SeatCodes:     codes,
            TotalCents:    total,
            ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
        }
        if err := e.events.PublishBookingConfirmed(ctx, ev); err != nil {
            log.Printf("reservation: publish booking.confirmed failed: %v", err)
        }
    }
    return &BookingConfirmation{
        BookingID:  booking.ID,
        SeatCount:  len(rows),
        TotalCents: total,
    }, nil
}

// SeatMap is the display view of a showtime's seating: the room layout
// plus which seats are booked and which are currently held.
type SeatMap struct {
    Layout *model.RoomLayout   `json:"layout"`
    Booked []model.BookingSeat `json:"booked"`
    Held   []model.SeatKey     `json:"held"`
}

// SeatMapFor assembles the availability view for a showtime.  Reads go
// through the stores so cancelled and expired bookings, and lapsed
// locks, are always excluded.
func (e *ReservationEngine) SeatMapFor(ctx context.Context, showtimeID uint64) (*SeatMap, error) {
    st, err := e.showtimes.GetByID(ctx, showtimeID)
    if err != nil {
        return nil, err
    }
    layout, err := e.layouts.GetLayout(ctx, st.RoomID)
    if err != nil {
        return nil, err
    }
    booked, err := e.bookings.SeatsByShowtime(ctx, showtimeID)
    if err != nil {
        return nil, err
    }
    locks, err := e.locks.ListActive(ctx, showtimeID)
    if err != nil {
        return nil, err
    }
    held := make([]model.SeatKey, 0, len(locks))
    for i := range locks {
        held = append(held, locks[i].Key())
    }
    if booked == nil {
        booked = []model.BookingSeat{}
    }
    return &SeatMap{Layout: layout, Booked: booked, Held: held}, nil
}

// GetBooking loads a booking with its seats.
func (e *ReservationEngine) GetBooking(ctx context.Context, id uint64) (*model.Booking, []model.BookingSeat, error) {
    return e.bookings.GetByID(ctx, id)
}

// CancelBooking transitions a confirmed booking to cancelled, which
// releases its seats back into inventory.
func (e *ReservationEngine) CancelBooking(ctx context.Context, id uint64) error {
    return e.bookings.Cancel(ctx, id, time.Now().UTC())
}

package model

import "time"

// Booking status values.  Only confirmed and completed bookings occupy
// their seats; cancelled and expired bookings release them for reuse.
const (
    BookingStatusConfirmed = "CONFIRMED"
    BookingStatusCancelled = "CANCELLED"
    BookingStatusCompleted = "COMPLETED"
    BookingStatusExpired   = "EXPIRED"
)

// Payment status values tracked on a booking.  Payment processing
// itself happens outside this service.
const (
    PaymentStatusUnpaid = "UNPAID"
    PaymentStatusPaid   = "PAID"
)

// Booking records a customer's confirmed allocation of one or more
// seats for a showtime.  It is created atomically with its seats; the
// only later mutation is a status transition (e.g. to CANCELLED), which
// releases the seats.
//
// Fields:
//  ID            – primary key identifier.
//  ShowtimeID    – showtime the seats belong to.
//  CustomerName  – name given at confirmation.
//  CustomerPhone – phone given at confirmation.
//  CustomerEmail – optional email.
//  TotalCents    – total price in cents for all seats.
//  Status        – CONFIRMED, CANCELLED, COMPLETED or EXPIRED.
//  PaymentStatus – UNPAID or PAID.
//  CreatedAt     – creation timestamp.
//  CancelledAt   – when the booking was cancelled, if ever.
type Booking struct {
    ID            uint64     // bookings.id
    ShowtimeID    uint64     // bookings.showtime_id
    CustomerName  string     // bookings.customer_name
    CustomerPhone string     // bookings.customer_phone
    CustomerEmail *string    // bookings.customer_email (nullable)
    TotalCents    uint32     // bookings.total_cents
    Status        string     // bookings.status
    PaymentStatus string     // bookings.payment_status
    CreatedAt     time.Time  // bookings.created_at
    CancelledAt   *time.Time // bookings.cancelled_at (nullable)
}

// Occupies reports whether the booking's seats count as taken.  The
// engine must exclude cancelled and expired bookings from every
// "is this seat free" decision so cancellation returns inventory.
func (b *Booking) Occupies() bool {
    return b.Status == BookingStatusConfirmed || b.Status == BookingStatusCompleted
}

// BookingSeat is a child row owned exclusively by one booking: created
// once together with it, never mutated, removed only when the parent is
// hard-deleted by an administrator.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – owning booking.
//  ShowtimeID – denormalised showtime for the uniqueness key.
//  Row        – row letter.
//  Col        – seat number within the row.
//  SeatCode   – derived "{row}{col}" code kept for display.
//  PriceCents – price paid for this seat.
//  SeatType   – STANDARD or VIP display tag.
type BookingSeat struct {
    ID         uint64 // booking_seats.id
    BookingID  uint64 // booking_seats.booking_id
    ShowtimeID uint64 // booking_seats.showtime_id
    Row        string // booking_seats.row_letter
    Col        uint32 // booking_seats.col_number
    SeatCode   string // booking_seats.seat_code
    PriceCents uint32 // booking_seats.price_cents
    SeatType   string // booking_seats.seat_type
}

// Key returns the seat's identity within its showtime.
func (s *BookingSeat) Key() SeatKey {
    return SeatKey{Row: s.Row, Col: s.Col}
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// confirmed.  It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID     uint64   `json:"booking_id"`
    ShowtimeID    uint64   `json:"showtime_id"`
    MovieTitle    string   `json:"movie_title,omitempty"`
    CustomerName  string   `json:"customer_name"`
    CustomerPhone string   `json:"customer_phone"`
    SeatCodes     []string `json:"seats"`
    TotalCents    uint32   `json:"total_cents"`
    ConfirmedAt   string   `json:"confirmed_at"`
}

package model

import "time"

// SeatLock represents a temporary hold on a seat while a customer is
// selecting.  At most one unexpired lock may exist per seat per
// showtime; a session may refresh its own lock but can never displace a
// valid lock held by another session.  Locks are soft state: losing
// them only degrades UX (the seat reappears after expiry), never
// correctness, because confirmation re-validates inside the booking
// transaction.
//
// Fields:
//  ID         – primary key identifier.
//  ShowtimeID – showtime the held seat belongs to.
//  Row        – row letter of the held seat.
//  Col        – seat number within the row.
//  SessionID  – opaque identity of the holding session.
//  ExpiresAt  – when the hold lapses.
//  CreatedAt  – when the hold was created.
type SeatLock struct {
    ID         uint64    // seat_locks.id
    ShowtimeID uint64    // seat_locks.showtime_id
    Row        string    // seat_locks.row_letter
    Col        uint32    // seat_locks.col_number
    SessionID  string    // seat_locks.session_id
    ExpiresAt  time.Time // seat_locks.expires_at
    CreatedAt  time.Time // seat_locks.created_at
}

// Key returns the locked seat's identity within its showtime.
func (l *SeatLock) Key() SeatKey {
    return SeatKey{Row: l.Row, Col: l.Col}
}

// Expired reports whether the lock has lapsed at the given instant.
func (l *SeatLock) Expired(now time.Time) bool {
    return !l.ExpiresAt.After(now)
}

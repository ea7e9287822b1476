package model

import "strconv"

// Seat type tags carried on booking seats for display purposes.  Pricing
// is flat per showtime; the tag only tells the UI how to render the seat.
const (
    SeatTypeStandard = "STANDARD"
    SeatTypeVIP      = "VIP"
)

// SeatKey identifies a single seat within a showtime.  Seats are never
// stored as standalone entities; they exist only as attributes of locks
// or booking seat rows, so the key is a pure value with no behaviour
// beyond deriving its display code.
//
// Fields:
//  Row – uppercase row letter ("A".."Z").
//  Col – 1-based seat number within the row.
type SeatKey struct {
    Row string `json:"row"`
    Col uint32 `json:"col"`
}

// Code returns the derived seat code, e.g. "A5" for row "A", col 5.
func (k SeatKey) Code() string {
    return k.Row + strconv.FormatUint(uint64(k.Col), 10)
}

// DedupeSeats returns the seats with duplicate keys removed, preserving
// the order of first occurrence.  Requests may repeat a seat; repeating
// it must not create duplicate locks or booking rows.
func DedupeSeats(seats []SeatKey) []SeatKey {
    seen := make(map[SeatKey]struct{}, len(seats))
    out := make([]SeatKey, 0, len(seats))
    for _, s := range seats {
        if _, ok := seen[s]; ok {
            continue
        }
        seen[s] = struct{}{}
        out = append(out, s)
    }
    return out
}

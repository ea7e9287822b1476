package model

import "time"

// Room represents a screening room inside a cinema.  The seating layout
// is stored as a JSON document in the rooms.layout column; a nil Layout
// means the room has not been configured yet and the documented default
// layout applies.
//
// Fields:
//  ID        – primary key identifier.
//  CinemaID  – cinema this room belongs to.
//  Name      – room name, unique per cinema.
//  Layout    – seating layout (nil when unset).
//  IsActive  – whether the room is open for scheduling.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
    ID        uint64      // rooms.id
    CinemaID  uint64      // rooms.cinema_id
    Name      string      // rooms.name
    Layout    *RoomLayout // rooms.layout (nullable JSON)
    IsActive  bool        // rooms.is_active
    CreatedAt time.Time   // rooms.created_at
    UpdatedAt time.Time   // rooms.updated_at
}

// RoomLayout is the static description of which (row, column) pairs are
// valid seats in a room and which of them are VIP.  It is read-only from
// the reservation engine's perspective: the engine only asks whether a
// requested seat exists and what its type tag is.
//
// Fields:
//  RowLetters  – ordered list of row letters, front row first.
//  SeatsPerRow – number of seats in each row, keyed by row letter.
//  VIPSeats    – seat numbers tagged VIP in each row.
//  RowOffsets  – horizontal rendering offset per row (display only).
type RoomLayout struct {
    RowLetters  []string            `json:"row_letters"`
    SeatsPerRow map[string]uint32   `json:"seats_per_row"`
    VIPSeats    map[string][]uint32 `json:"vip_seats,omitempty"`
    RowOffsets  map[string]uint32   `json:"row_offsets,omitempty"`
}

// DefaultRoomLayout returns the layout used when a room has no stored
// layout: 8 rows A..H with 12 seats each and the middle of rows D..F
// tagged VIP.  Falling back keeps unconfigured rooms bookable without
// ever accepting out-of-range seats.
func DefaultRoomLayout() *RoomLayout {
    rows := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
    perRow := make(map[string]uint32, len(rows))
    for _, r := range rows {
        perRow[r] = 12
    }
    vip := map[string][]uint32{
        "D": {4, 5, 6, 7, 8, 9},
        "E": {4, 5, 6, 7, 8, 9},
        "F": {4, 5, 6, 7, 8, 9},
    }
    return &RoomLayout{RowLetters: rows, SeatsPerRow: perRow, VIPSeats: vip}
}

// Contains reports whether (row, col) is a real seat in this layout.
func (l *RoomLayout) Contains(seat SeatKey) bool {
    n, ok := l.SeatsPerRow[seat.Row]
    if !ok {
        return false
    }
    return seat.Col >= 1 && seat.Col <= n
}

// SeatType returns the display tag for a seat: SeatTypeVIP when the
// layout marks it as such, SeatTypeStandard otherwise.  The caller is
// expected to have validated the seat with Contains first.
func (l *RoomLayout) SeatType(seat SeatKey) string {
    for _, c := range l.VIPSeats[seat.Row] {
        if c == seat.Col {
            return SeatTypeVIP
        }
    }
    return SeatTypeStandard
}

// Invalid returns the subset of seats that are not present in the
// layout, preserving request order.  An empty result means the whole
// request is within bounds.
func (l *RoomLayout) Invalid(seats []SeatKey) []SeatKey {
    var bad []SeatKey
    for _, s := range seats {
        if !l.Contains(s) {
            bad = append(bad, s)
        }
    }
    return bad
}

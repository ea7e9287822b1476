package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestDefaultRoomLayout(t *testing.T) {
    l := DefaultRoomLayout()
    require.Len(t, l.RowLetters, 8)
    for _, r := range l.RowLetters {
        assert.Equal(t, uint32(12), l.SeatsPerRow[r])
    }
    assert.Equal(t, SeatTypeVIP, l.SeatType(SeatKey{Row: "E", Col: 6}))
    assert.Equal(t, SeatTypeStandard, l.SeatType(SeatKey{Row: "E", Col: 2}))
    assert.Equal(t, SeatTypeStandard, l.SeatType(SeatKey{Row: "A", Col: 6}))
}

func TestRoomLayoutContains(t *testing.T) {
    l := DefaultRoomLayout()
    assert.True(t, l.Contains(SeatKey{Row: "A", Col: 1}))
    assert.True(t, l.Contains(SeatKey{Row: "H", Col: 12}))
    assert.False(t, l.Contains(SeatKey{Row: "A", Col: 0}))
    assert.False(t, l.Contains(SeatKey{Row: "A", Col: 13}))
    assert.False(t, l.Contains(SeatKey{Row: "Z", Col: 1}))
}

func TestRoomLayoutInvalid(t *testing.T) {
    l := DefaultRoomLayout()
    bad := l.Invalid([]SeatKey{
        {Row: "A", Col: 5},
        {Row: "Z", Col: 1},
        {Row: "B", Col: 99},
    })
    assert.Equal(t, []SeatKey{{Row: "Z", Col: 1}, {Row: "B", Col: 99}}, bad)

    assert.Empty(t, l.Invalid([]SeatKey{{Row: "C", Col: 3}}))
}

func TestBookingOccupies(t *testing.T) {
    for status, want := range map[string]bool{
        BookingStatusConfirmed: true,
        BookingStatusCompleted: true,
        BookingStatusCancelled: false,
        BookingStatusExpired:   false,
    } {
        b := Booking{Status: status}
        assert.Equal(t, want, b.Occupies(), "status %s", status)
    }
}

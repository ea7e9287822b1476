package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestSeatKeyCode(t *testing.T) {
    assert.Equal(t, "A5", SeatKey{Row: "A", Col: 5}.Code())
    assert.Equal(t, "H12", SeatKey{Row: "H", Col: 12}.Code())
}

func TestDedupeSeats(t *testing.T) {
    in := []SeatKey{
        {Row: "A", Col: 1},
        {Row: "A", Col: 2},
        {Row: "A", Col: 1},
        {Row: "B", Col: 1},
        {Row: "A", Col: 2},
    }
    out := DedupeSeats(in)
    assert.Equal(t, []SeatKey{{Row: "A", Col: 1}, {Row: "A", Col: 2}, {Row: "B", Col: 1}}, out)
}

func TestDedupeSeatsEmpty(t *testing.T) {
    assert.Empty(t, DedupeSeats(nil))
}

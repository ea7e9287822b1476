package queue

import (
    "encoding/json"
    "os"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAppendConfirmation(t *testing.T) {
    t.Chdir(t.TempDir())

    ev := BookingConfirmedEvent{
        BookingID:     12,
        ShowtimeID:    42,
        MovieTitle:    "The Last Reel",
        CustomerName:  "Dana",
        CustomerPhone: "555-0101",
        SeatCodes:     []string{"A5", "A6"},
        TotalCents:    3000,
        ConfirmedAt:   "2026-03-14T18:00:00Z",
    }
    body, err := json.Marshal(ev)
    require.NoError(t, err)

    require.NoError(t, appendConfirmation(body))
    require.NoError(t, appendConfirmation(body))

    raw, err := os.ReadFile(filepath.Join("logs", "booking.log"))
    require.NoError(t, err)
    line := string(raw)
    assert.Contains(t, line, "booking=12")
    assert.Contains(t, line, `movie="The Last Reel"`)
    assert.Contains(t, line, "seats=A5,A6")
    assert.Equal(t, 2, countLines(line))
}

func TestAppendConfirmationRejectsGarbage(t *testing.T) {
    t.Chdir(t.TempDir())
    assert.Error(t, appendConfirmation([]byte("not json")))
}

func countLines(s string) int {
    n := 0
    for _, c := range s {
        if c == '\n' {
            n++
        }
    }
    return n
}

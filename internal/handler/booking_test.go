package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cineplaza/cinema-booking/internal/model"
    "github.com/cineplaza/cinema-booking/internal/repository"
    "github.com/cineplaza/cinema-booking/internal/service"
)

// Minimal in-memory stores for exercising the HTTP layer.  Concurrency
// behaviour is covered by the service tests; here the stores only need
// to produce the right domain errors.

type memLocks struct {
    mu    sync.Mutex
    held  map[model.SeatKey]string // seat -> session
    taken map[model.SeatKey]bool
}

func newMemLocks() *memLocks {
    return &memLocks{held: map[model.SeatKey]string{}, taken: map[model.SeatKey]bool{}}
}

func (s *memLocks) SweepExpired(ctx context.Context) (int64, error) { return 0, nil }

func (s *memLocks) Acquire(ctx context.Context, showtimeID uint64, seats []model.SeatKey, sessionID string, ttl time.Duration) (*repository.AcquireResult, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := &repository.AcquireResult{ExpiresAt: time.Now().UTC().Add(ttl)}
    for _, seat := range seats {
        if s.taken[seat] {
            out.Failed = append(out.Failed, repository.SeatFailure{Row: seat.Row, Col: seat.Col, Reason: repository.ReasonSeatBooked})
            continue
        }
        if owner, ok := s.held[seat]; ok && owner != sessionID {
            out.Failed = append(out.Failed, repository.SeatFailure{Row: seat.Row, Col: seat.Col, Reason: repository.ReasonSeatHeld})
            continue
        }
        s.held[seat] = sessionID
        out.Locked = append(out.Locked, seat)
    }
    return out, nil
}

func (s *memLocks) Release(ctx context.Context, showtimeID uint64, seats []model.SeatKey, sessionID string) (int64, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var n int64
    for _, seat := range seats {
        if s.held[seat] == sessionID {
            delete(s.held, seat)
            n++
        }
    }
    return n, nil
}

func (s *memLocks) ReleaseAllForShowtime(ctx context.Context, showtimeID uint64, sessionID string) ([]model.SeatKey, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.SeatKey
    for seat, owner := range s.held {
        if owner == sessionID {
            delete(s.held, seat)
            out = append(out, seat)
        }
    }
    return out, nil
}

func (s *memLocks) ReleaseAllForSession(ctx context.Context, sessionID string) (int64, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var n int64
    for seat, owner := range s.held {
        if owner == sessionID {
            delete(s.held, seat)
            n++
        }
    }
    return n, nil
}

func (s *memLocks) ListActive(ctx context.Context, showtimeID uint64) ([]model.SeatLock, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.SeatLock
    for seat, owner := range s.held {
        out = append(out, model.SeatLock{ShowtimeID: showtimeID, Row: seat.Row, Col: seat.Col, SessionID: owner})
    }
    return out, nil
}

type memBookings struct {
    mu     sync.Mutex
    nextID uint64
    byID   map[uint64]*model.Booking
    seats  map[uint64][]model.BookingSeat
    locks  *memLocks
}

func newMemBookings(locks *memLocks) *memBookings {
    return &memBookings{byID: map[uint64]*model.Booking{}, seats: map[uint64][]model.BookingSeat{}, locks: locks}
}

func (s *memBookings) CreateBooking(ctx context.Context, b *model.Booking, seats []model.BookingSeat) error {
    if len(seats) == 0 {
        return repository.ErrEmptySeatList
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    var conflicts []model.SeatKey
    for i := range seats {
        if s.locks.taken[seats[i].Key()] {
            conflicts = append(conflicts, seats[i].Key())
        }
    }
    if len(conflicts) > 0 {
        return &repository.SeatUnavailableError{Seats: conflicts}
    }
    s.nextID++
    b.ID = s.nextID
    b.Status = model.BookingStatusConfirmed
    cp := *b
    s.byID[b.ID] = &cp
    for i := range seats {
        seats[i].BookingID = b.ID
        s.locks.taken[seats[i].Key()] = true
    }
    s.seats[b.ID] = seats
    return nil
}

func (s *memBookings) SeatsByShowtime(ctx context.Context, showtimeID uint64) ([]model.BookingSeat, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.BookingSeat
    for id, b := range s.byID {
        if b.ShowtimeID == showtimeID && b.Occupies() {
            out = append(out, s.seats[id]...)
        }
    }
    return out, nil
}

func (s *memBookings) GetByID(ctx context.Context, id uint64) (*model.Booking, []model.BookingSeat, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.byID[id]
    if !ok {
        return nil, nil, repository.ErrBookingNotFound
    }
    cp := *b
    return &cp, s.seats[id], nil
}

func (s *memBookings) Cancel(ctx context.Context, id uint64, now time.Time) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.byID[id]
    if !ok {
        return repository.ErrBookingNotFound
    }
    if b.Status != model.BookingStatusConfirmed {
        return repository.ErrNotCancellable
    }
    b.Status = model.BookingStatusCancelled
    for _, row := range s.seats[id] {
        delete(s.locks.taken, row.Key())
    }
    return nil
}

func (s *memBookings) ListByPhone(ctx context.Context, phone string) ([]model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Booking
    for _, b := range s.byID {
        if b.CustomerPhone == phone {
            out = append(out, *b)
        }
    }
    return out, nil
}

type memShowtimes struct{}

func (memShowtimes) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
    if id != 42 {
        return nil, repository.ErrShowtimeNotFound
    }
    return &model.Showtime{ID: 42, RoomID: 7, PriceCents: 1200}, nil
}

type memLayouts struct{}

func (memLayouts) GetLayout(ctx context.Context, roomID uint64) (*model.RoomLayout, error) {
    return model.DefaultRoomLayout(), nil
}

func newTestHandler() (*BookingHandler, *memBookings) {
    locks := newMemLocks()
    bookings := newMemBookings(locks)
    engine := service.NewReservationEngine(locks, bookings, memShowtimes{}, memLayouts{}, nil)
    return NewBookingHandler(engine, bookings), bookings
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    req.Header.Set("X-Session-ID", "test-session")
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    for k, v := range params {
        c.SetParamNames(k)
        c.SetParamValues(v)
    }
    require.NoError(t, h(c))
    return rec
}

func TestHoldSeatsEndpoint(t *testing.T) {
    h, _ := newTestHandler()

    rec := doJSON(t, h.HoldSeats, http.MethodPost, "/v1/showtimes/42/hold",
        `{"seats":[{"row":"a","col":5}]}`, map[string]string{"id": "42"})
    require.Equal(t, http.StatusCreated, rec.Code)

    var res struct {
        Locked []model.SeatKey `json:"locked"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
    assert.Equal(t, []model.SeatKey{{Row: "A", Col: 5}}, res.Locked, "rows are upper-cased on the way in")
}

func TestHoldSeatsEndpointConflict(t *testing.T) {
    h, _ := newTestHandler()

    first := doJSON(t, h.HoldSeats, http.MethodPost, "/v1/showtimes/42/hold",
        `{"seats":[{"row":"A","col":5}]}`, map[string]string{"id": "42"})
    require.Equal(t, http.StatusCreated, first.Code)

    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/showtimes/42/hold",
        strings.NewReader(`{"seats":[{"row":"A","col":5}]}`))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    req.Header.Set("X-Session-ID", "someone-else")
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues("42")
    require.NoError(t, h.HoldSeats(c))
    assert.Equal(t, http.StatusConflict, rec.Code, "every seat failed")
    assert.Contains(t, rec.Body.String(), repository.ReasonSeatHeld)
}

func TestHoldSeatsEndpointValidation(t *testing.T) {
    h, _ := newTestHandler()

    rec := doJSON(t, h.HoldSeats, http.MethodPost, "/v1/showtimes/42/hold",
        `{"seats":[]}`, map[string]string{"id": "42"})
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = doJSON(t, h.HoldSeats, http.MethodPost, "/v1/showtimes/42/hold",
        `{"seats":[{"row":"Z","col":99}]}`, map[string]string{"id": "42"})
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = doJSON(t, h.HoldSeats, http.MethodPost, "/v1/showtimes/7/hold",
        `{"seats":[{"row":"A","col":1}]}`, map[string]string{"id": "7"})
    assert.Equal(t, http.StatusNotFound, rec.Code)

    rec = doJSON(t, h.HoldSeats, http.MethodPost, "/v1/showtimes/x/hold",
        `{"seats":[{"row":"A","col":1}]}`, map[string]string{"id": "x"})
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingEndpoint(t *testing.T) {
    h, _ := newTestHandler()

    rec := doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings",
        `{"showtime_id":42,"seats":[{"row":"A","col":5},{"row":"A","col":6}],"customer_name":"Dana","customer_phone":"555-0101"}`, nil)
    require.Equal(t, http.StatusCreated, rec.Code)

    var conf service.BookingConfirmation
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conf))
    assert.Equal(t, 2, conf.SeatCount)
    assert.Equal(t, uint32(2400), conf.TotalCents)
}

func TestCreateBookingEndpointConflict(t *testing.T) {
    h, _ := newTestHandler()

    first := doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings",
        `{"showtime_id":42,"seats":[{"row":"B","col":2}],"customer_name":"Dana","customer_phone":"555-0101"}`, nil)
    require.Equal(t, http.StatusCreated, first.Code)

    rec := doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings",
        `{"showtime_id":42,"seats":[{"row":"B","col":1},{"row":"B","col":2}],"customer_name":"Riley","customer_phone":"555-0102"}`, nil)
    require.Equal(t, http.StatusConflict, rec.Code)

    var body struct {
        Failed []repository.SeatFailure `json:"failed"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    require.Len(t, body.Failed, 1, "conflict responses name the losing seats")
    assert.Equal(t, "B", body.Failed[0].Row)
    assert.Equal(t, uint32(2), body.Failed[0].Col)
}

func TestCreateBookingEndpointValidation(t *testing.T) {
    h, _ := newTestHandler()

    rec := doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings",
        `{"showtime_id":42,"seats":[{"row":"A","col":1}],"customer_name":"","customer_phone":""}`, nil)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings",
        `{"seats":[{"row":"A","col":1}],"customer_name":"Dana","customer_phone":"555-0101"}`, nil)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelBookingEndpoint(t *testing.T) {
    h, _ := newTestHandler()

    created := doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings",
        `{"showtime_id":42,"seats":[{"row":"C","col":3}],"customer_name":"Dana","customer_phone":"555-0101"}`, nil)
    require.Equal(t, http.StatusCreated, created.Code)
    var conf service.BookingConfirmation
    require.NoError(t, json.Unmarshal(created.Body.Bytes(), &conf))

    rec := doJSON(t, h.CancelBooking, http.MethodDelete, "/v1/bookings/1", "",
        map[string]string{"id": "1"})
    assert.Equal(t, http.StatusOK, rec.Code)

    rec = doJSON(t, h.CancelBooking, http.MethodDelete, "/v1/bookings/1", "",
        map[string]string{"id": "1"})
    assert.Equal(t, http.StatusConflict, rec.Code)

    rec = doJSON(t, h.CancelBooking, http.MethodDelete, "/v1/bookings/99", "",
        map[string]string{"id": "99"})
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBookingsEndpoint(t *testing.T) {
    h, _ := newTestHandler()

    created := doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings",
        `{"showtime_id":42,"seats":[{"row":"D","col":4}],"customer_name":"Dana","customer_phone":"555-0101"}`, nil)
    require.Equal(t, http.StatusCreated, created.Code)

    rec := doJSON(t, h.ListBookings, http.MethodGet, "/v1/bookings?phone=555-0101", "", nil)
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), "555-0101")

    rec = doJSON(t, h.ListBookings, http.MethodGet, "/v1/bookings", "", nil)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/cineplaza/cinema-booking/internal/model"
)

// BookingRepo provides data access to the bookings and booking_seats
// tables.  A booking and its seats become visible atomically or not at
// all: every write path here runs inside one transaction and a failure
// leaves zero trace, never an orphan booking without seats.
//
// The booking_seats table carries a UNIQUE KEY on (showtime_id,
// row_letter, col_number, active).  Live rows have active = 1; when the
// parent booking is cancelled or expired the rows are flipped to NULL,
// which MySQL excludes from uniqueness, so released seats can be booked
// again without colliding in the index.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateBooking durably converts the requested seats into a confirmed
// booking.  It inserts the booking row, bulk-inserts the seat rows and
// commits; a duplicate-key error on the seat insert means another
// confirmed booking already owns at least one requested seat, in which
// case the whole transaction is rolled back and a SeatUnavailableError
// naming the conflicting seats is returned.
//
// On success the generated ID and timestamps are populated on b and
// each seat carries the new booking ID.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking, seats []model.BookingSeat) error {
    if len(seats) == 0 {
        return ErrEmptySeatList
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const insBooking = `INSERT INTO bookings
        (showtime_id, customer_name, customer_phone, customer_email, total_cents, status, payment_status)
        VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, insBooking,
        b.ShowtimeID, b.CustomerName, b.CustomerPhone, b.CustomerEmail,
        b.TotalCents, model.BookingStatusConfirmed, model.PaymentStatusUnpaid)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    b.Status = model.BookingStatusConfirmed
    b.PaymentStatus = model.PaymentStatusUnpaid

    query := `INSERT INTO booking_seats
        (booking_id, showtime_id, row_letter, col_number, seat_code, price_cents, seat_type, active) VALUES `
    args := make([]interface{}, 0, len(seats)*7)
    for i := range seats {
        seats[i].BookingID = b.ID
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?, ?, ?, 1)"
        s := seats[i]
        args = append(args, s.BookingID, s.ShowtimeID, s.Row, s.Col, s.SeatCode, s.PriceCents, s.SeatType)
    }
    if _, err := tx.ExecContext(ctx, query, args...); err != nil {
        if isDuplicateKey(err) {
            keys := make([]model.SeatKey, len(seats))
            for i, s := range seats {
                keys[i] = s.Key()
            }
            conflicts, qerr := r.takenAmong(ctx, b.ShowtimeID, keys)
            if qerr != nil || len(conflicts) == 0 {
                // Conflict is certain even if the enumeration failed.
                conflicts = keys
            }
            return &SeatUnavailableError{Seats: conflicts}
        }
        return err
    }

    // Query back DB-default timestamps so the caller sees the full row.
    const sel = `SELECT created_at FROM bookings WHERE id = ?`
    if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// takenAmong returns which of the given seats are currently owned by a
// live booking for the showtime.  Used to enumerate conflicts after a
// failed create so the caller can name the exact seats.
func (r *BookingRepo) takenAmong(ctx context.Context, showtimeID uint64, seats []model.SeatKey) ([]model.SeatKey, error) {
    if len(seats) == 0 {
        return nil, nil
    }
    var sb strings.Builder
    sb.WriteString(`SELECT row_letter, col_number FROM booking_seats
        WHERE showtime_id = ? AND active = 1 AND (`)
    args := make([]interface{}, 0, 1+len(seats)*2)
    args = append(args, showtimeID)
    for i, s := range seats {
        if i > 0 {
            sb.WriteString(" OR ")
        }
        sb.WriteString("(row_letter = ? AND col_number = ?)")
        args = append(args, s.Row, s.Col)
    }
    sb.WriteString(")")
    rows, err := r.db.QueryContext(ctx, sb.String(), args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var taken []model.SeatKey
    for rows.Next() {
        var s model.SeatKey
        if err := rows.Scan(&s.Row, &s.Col); err != nil {
            return nil, err
        }
        taken = append(taken, s)
    }
    return taken, rows.Err()
}

// GetByID loads a booking together with its seats.  It returns
// ErrBookingNotFound when no such booking exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, []model.BookingSeat, error) {
    const q = `SELECT id, showtime_id, customer_name, customer_phone, customer_email,
                      total_cents, status, payment_status, created_at, cancelled_at
               FROM bookings WHERE id = ?`
    var b model.Booking
    var email sql.NullString
    var cancelledAt sql.NullTime
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &b.ID, &b.ShowtimeID, &b.CustomerName, &b.CustomerPhone, &email,
        &b.TotalCents, &b.Status, &b.PaymentStatus, &b.CreatedAt, &cancelledAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, nil, ErrBookingNotFound
        }
        return nil, nil, err
    }
    if email.Valid {
        e := email.String
        b.CustomerEmail = &e
    }
    if cancelledAt.Valid {
        t := cancelledAt.Time
        b.CancelledAt = &t
    }
    seats, err := r.seatsOf(ctx, b.ID)
    if err != nil {
        return nil, nil, err
    }
    return &b, seats, nil
}

func (r *BookingRepo) seatsOf(ctx context.Context, bookingID uint64) ([]model.BookingSeat, error) {
    const q = `SELECT id, booking_id, showtime_id, row_letter, col_number, seat_code, price_cents, seat_type
               FROM booking_seats WHERE booking_id = ?
               ORDER BY row_letter, col_number`
    rows, err := r.db.QueryContext(ctx, q, bookingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var seats []model.BookingSeat
    for rows.Next() {
        var s model.BookingSeat
        if err := rows.Scan(&s.ID, &s.BookingID, &s.ShowtimeID, &s.Row, &s.Col, &s.SeatCode, &s.PriceCents, &s.SeatType); err != nil {
            return nil, err
        }
        seats = append(seats, s)
    }
    return seats, rows.Err()
}

// SeatsByShowtime returns the seat rows of every live booking for the
// showtime, the set the seating chart renders as taken.  Cancelled and
// expired bookings are excluded by the active flag.
func (r *BookingRepo) SeatsByShowtime(ctx context.Context, showtimeID uint64) ([]model.BookingSeat, error) {
    const q = `SELECT id, booking_id, showtime_id, row_letter, col_number, seat_code, price_cents, seat_type
               FROM booking_seats
               WHERE showtime_id = ? AND active = 1
               ORDER BY row_letter, col_number`
    rows, err := r.db.QueryContext(ctx, q, showtimeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var seats []model.BookingSeat
    for rows.Next() {
        var s model.BookingSeat
        if err := rows.Scan(&s.ID, &s.BookingID, &s.ShowtimeID, &s.Row, &s.Col, &s.SeatCode, &s.PriceCents, &s.SeatType); err != nil {
            return nil, err
        }
        seats = append(seats, s)
    }
    return seats, rows.Err()
}

// ListByPhone returns bookings made under the given customer phone,
// newest first, for the lookup surface.
func (r *BookingRepo) ListByPhone(ctx context.Context, phone string) ([]model.Booking, error) {
    const q = `SELECT id, showtime_id, customer_name, customer_phone, customer_email,
                      total_cents, status, payment_status, created_at, cancelled_at
               FROM bookings WHERE customer_phone = ?
               ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, phone)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Booking
    for rows.Next() {
        var b model.Booking
        var email sql.NullString
        var cancelledAt sql.NullTime
        if err := rows.Scan(
            &b.ID, &b.ShowtimeID, &b.CustomerName, &b.CustomerPhone, &email,
            &b.TotalCents, &b.Status, &b.PaymentStatus, &b.CreatedAt, &cancelledAt); err != nil {
            return nil, err
        }
        if email.Valid {
            e := email.String
            b.CustomerEmail = &e
        }
        if cancelledAt.Valid {
            t := cancelledAt.Time
            b.CancelledAt = &t
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// Cancel transitions a confirmed booking to CANCELLED and releases its
// seats by flipping their active flag to NULL, all in one transaction.
// Cancellation must free inventory: once committed, the seats take part
// in no further conflict checks.  It returns ErrBookingNotFound when
// the booking does not exist and ErrNotCancellable when it is not in a
// cancellable state.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64, now time.Time) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var status string
    err = tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ? FOR UPDATE`, id).Scan(&status)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrBookingNotFound
        }
        return err
    }
    if status != model.BookingStatusConfirmed {
        return ErrNotCancellable
    }
    _, err = tx.ExecContext(ctx,
        `UPDATE bookings SET status = ?, cancelled_at = ? WHERE id = ?`,
        model.BookingStatusCancelled, now.UTC().Format("2006-01-02 15:04:05"), id)
    if err != nil {
        return err
    }
    if _, err = tx.ExecContext(ctx,
        `UPDATE booking_seats SET active = NULL WHERE booking_id = ?`, id); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

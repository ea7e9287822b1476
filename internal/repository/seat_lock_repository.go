package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/cineplaza/cinema-booking/internal/model"
)

// SeatLockRepo provides data access to the seat_locks table, the store
// of transient seat holds.  The table carries a UNIQUE KEY on
// (showtime_id, row_letter, col_number), so the check-then-write step of
// acquiring a hold is serialised by the database: when two sessions race
// for the same seat, exactly one INSERT succeeds and the loser observes
// a duplicate-key error, which is translated into a per-seat failure.
// A plain SELECT-then-INSERT would be a race and is deliberately not
// how acquisition works here.
//
// All expiry comparisons run in UTC inside the database.
type SeatLockRepo struct {
    db *sql.DB
}

// NewSeatLockRepo returns a SeatLockRepo bound to the given database.
func NewSeatLockRepo(db *sql.DB) *SeatLockRepo { return &SeatLockRepo{db: db} }

// SeatFailure names one seat of a batch that could not be locked and
// the human-readable reason why.  Failures are reported per seat so the
// UI can keep the seats that did succeed selected.
type SeatFailure struct {
    Row    string `json:"row"`
    Col    uint32 `json:"col"`
    Reason string `json:"reason"`
}

// AcquireResult is the partial-success outcome of an Acquire call: some
// seats of the batch may be locked while others fail.  The caller
// decides whether partial success is acceptable.  ExpiresAt is the
// expiry actually stamped on the locks, computed once for the batch.
type AcquireResult struct {
    Locked    []model.SeatKey
    Failed    []SeatFailure
    ExpiresAt time.Time
}

// SweepExpired deletes every lock whose expiry has passed and returns
// the number of rows removed.  It is called at the start of acquire and
// list operations so the store stays self-cleaning without a background
// scheduler.
func (r *SeatLockRepo) SweepExpired(ctx context.Context) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM seat_locks WHERE expires_at <= UTC_TIMESTAMP()`)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// Acquire attempts to lock each requested seat for the session with the
// given TTL.  Per seat it runs one short transaction: remove the
// caller's own prior lock (self-refresh), reject when a confirmed
// booking already occupies the seat, then insert the fresh lock.  A
// duplicate-key error on the insert means another session holds the
// seat; if that conflicting lock has expired it is removed and the
// insert retried once, otherwise the seat fails with ReasonSeatHeld.
//
// Seats are independent keys, so a failure on one never affects the
// others.  The returned result lists both outcomes.
func (r *SeatLockRepo) Acquire(ctx context.Context, showtimeID uint64, seats []model.SeatKey, sessionID string, ttl time.Duration) (*AcquireResult, error) {
    expiresAt := time.Now().UTC().Add(ttl)
    out := &AcquireResult{ExpiresAt: expiresAt}
    for _, seat := range seats {
        ok, reason, err := r.acquireOne(ctx, showtimeID, seat, sessionID, expiresAt)
        if err != nil {
            return nil, err
        }
        if ok {
            out.Locked = append(out.Locked, seat)
        } else {
            out.Failed = append(out.Failed, SeatFailure{Row: seat.Row, Col: seat.Col, Reason: reason})
        }
    }
    return out, nil
}

func (r *SeatLockRepo) acquireOne(ctx context.Context, showtimeID uint64, seat model.SeatKey, sessionID string, expiresAt time.Time) (bool, string, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return false, "", err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Self-refresh: drop the caller's own prior lock so the insert below
    // extends the expiry instead of colliding with it.
    _, err = tx.ExecContext(ctx,
        `DELETE FROM seat_locks
         WHERE showtime_id = ? AND row_letter = ? AND col_number = ? AND session_id = ?`,
        showtimeID, seat.Row, seat.Col, sessionID)
    if err != nil {
        return false, "", err
    }

    // A seat owned by a live booking can never be held.  Cancelled and
    // expired bookings have active set to NULL and do not count.
    var taken bool
    err = tx.QueryRowContext(ctx,
        `SELECT EXISTS(
            SELECT 1 FROM booking_seats
            WHERE showtime_id = ? AND row_letter = ? AND col_number = ? AND active = 1)`,
        showtimeID, seat.Row, seat.Col).Scan(&taken)
    if err != nil {
        return false, "", err
    }
    if taken {
        if err := tx.Commit(); err != nil {
            return false, "", err
        }
        committed = true
        return false, ReasonSeatBooked, nil
    }

    const ins = `INSERT INTO seat_locks (showtime_id, row_letter, col_number, session_id, expires_at)
                 VALUES (?, ?, ?, ?, ?)`
    expiry := expiresAt.Format("2006-01-02 15:04:05")
    _, err = tx.ExecContext(ctx, ins, showtimeID, seat.Row, seat.Col, sessionID, expiry)
    if err != nil && isDuplicateKey(err) {
        // Another session owns the row.  It may have expired after the
        // sweep; clear it and retry the insert exactly once.
        res, delErr := tx.ExecContext(ctx,
            `DELETE FROM seat_locks
             WHERE showtime_id = ? AND row_letter = ? AND col_number = ? AND expires_at <= UTC_TIMESTAMP()`,
            showtimeID, seat.Row, seat.Col)
        if delErr != nil {
            return false, "", delErr
        }
        if n, _ := res.RowsAffected(); n > 0 {
            _, err = tx.ExecContext(ctx, ins, showtimeID, seat.Row, seat.Col, sessionID, expiry)
        }
        if err != nil && isDuplicateKey(err) {
            if cmErr := tx.Commit(); cmErr != nil {
                return false, "", cmErr
            }
            committed = true
            return false, ReasonSeatHeld, nil
        }
    }
    if err != nil {
        return false, "", err
    }
    if err := tx.Commit(); err != nil {
        return false, "", err
    }
    committed = true
    return true, "", nil
}

// Release deletes locks matching exactly this session and these seats.
// Releasing a lock that does not exist is not an error; the call is
// idempotent.  It returns the number of locks actually removed.
func (r *SeatLockRepo) Release(ctx context.Context, showtimeID uint64, seats []model.SeatKey, sessionID string) (int64, error) {
    var released int64
    for _, seat := range seats {
        res, err := r.db.ExecContext(ctx,
            `DELETE FROM seat_locks
             WHERE showtime_id = ? AND row_letter = ? AND col_number = ? AND session_id = ?`,
            showtimeID, seat.Row, seat.Col, sessionID)
        if err != nil {
            return released, err
        }
        n, _ := res.RowsAffected()
        released += n
    }
    return released, nil
}

// ReleaseAllForShowtime removes every lock this session holds on the
// given showtime, returning the seats that were released.  Used when a
// customer abandons the selection flow.
func (r *SeatLockRepo) ReleaseAllForShowtime(ctx context.Context, showtimeID uint64, sessionID string) ([]model.SeatKey, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT row_letter, col_number FROM seat_locks WHERE showtime_id = ? AND session_id = ?`,
        showtimeID, sessionID)
    if err != nil {
        return nil, err
    }
    var seats []model.SeatKey
    for rows.Next() {
        var s model.SeatKey
        if scanErr := rows.Scan(&s.Row, &s.Col); scanErr != nil {
            rows.Close()
            return nil, scanErr
        }
        seats = append(seats, s)
    }
    if err := rows.Close(); err != nil {
        return nil, err
    }
    if len(seats) == 0 {
        return nil, nil
    }
    _, err = r.db.ExecContext(ctx,
        `DELETE FROM seat_locks WHERE showtime_id = ? AND session_id = ?`,
        showtimeID, sessionID)
    if err != nil {
        return nil, err
    }
    return seats, nil
}

// ReleaseAllForSession removes every lock held by the session across
// all showtimes.  Used on logout and disconnect cleanup.
func (r *SeatLockRepo) ReleaseAllForSession(ctx context.Context, sessionID string) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM seat_locks WHERE session_id = ?`, sessionID)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// ListActive returns the unexpired locks for a showtime, sweeping
// expired rows first so callers never see a lapsed hold.
func (r *SeatLockRepo) ListActive(ctx context.Context, showtimeID uint64) ([]model.SeatLock, error) {
    if _, err := r.SweepExpired(ctx); err != nil {
        return nil, err
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, showtime_id, row_letter, col_number, session_id, expires_at, created_at
         FROM seat_locks
         WHERE showtime_id = ? AND expires_at > UTC_TIMESTAMP()
         ORDER BY row_letter, col_number`,
        showtimeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var locks []model.SeatLock
    for rows.Next() {
        var l model.SeatLock
        if err := rows.Scan(&l.ID, &l.ShowtimeID, &l.Row, &l.Col, &l.SessionID, &l.ExpiresAt, &l.CreatedAt); err != nil {
            return nil, err
        }
        locks = append(locks, l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return locks, nil
}

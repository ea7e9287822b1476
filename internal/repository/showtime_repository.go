package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cineplaza/cinema-booking/internal/model"
)

// ShowtimeRepo manages persistence for showtimes.  The reservation
// engine uses it to price seats and validate that a showtime exists;
// the browse endpoints use it to render schedules.
type ShowtimeRepo struct {
    db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// GetByID retrieves a showtime by its ID, joining in the movie title
// for display and event payloads.  It returns ErrShowtimeNotFound when
// there is no matching row.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
    const q = `SELECT s.id, s.movie_id, m.title, s.room_id, s.starts_at, s.price_cents, s.status, s.created_at, s.updated_at
               FROM showtimes s JOIN movies m ON m.id = s.movie_id
               WHERE s.id = ?`
    var s model.Showtime
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &s.ID, &s.MovieID, &s.MovieTitle, &s.RoomID, &s.StartsAt, &s.PriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrShowtimeNotFound
        }
        return nil, err
    }
    return &s, nil
}

// ListByMovie returns upcoming showtimes for a movie ordered by start
// time.  When none exist it returns an empty slice and nil error.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Showtime, error) {
    const q = `SELECT s.id, s.movie_id, m.title, s.room_id, s.starts_at, s.price_cents, s.status, s.created_at, s.updated_at
               FROM showtimes s JOIN movies m ON m.id = s.movie_id
               WHERE s.movie_id = ? AND s.status = 'SCHEDULED' AND s.starts_at > UTC_TIMESTAMP()
               ORDER BY s.starts_at ASC`
    rows, err := r.db.QueryContext(ctx, q, movieID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Showtime, 0)
    for rows.Next() {
        var s model.Showtime
        if err := rows.Scan(
            &s.ID, &s.MovieID, &s.MovieTitle, &s.RoomID, &s.StartsAt, &s.PriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cineplaza/cinema-booking/internal/model"
)

// MovieRepo serves the public browse endpoints.  It is a thin read
// layer; catalogue management happens through admin tooling outside
// this service.
type MovieRepo struct {
    db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// ListShowing returns movies currently on the schedule.
func (r *MovieRepo) ListShowing(ctx context.Context) ([]model.Movie, error) {
    const q = `SELECT id, title, description, duration_min, poster_url, is_showing, created_at
               FROM movies WHERE is_showing = 1 ORDER BY title ASC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Movie, 0)
    for rows.Next() {
        var m model.Movie
        var desc, poster sql.NullString
        if err := rows.Scan(&m.ID, &m.Title, &desc, &m.DurationMin, &poster, &m.IsShowing, &m.CreatedAt); err != nil {
            return nil, err
        }
        if desc.Valid {
            d := desc.String
            m.Description = &d
        }
        if poster.Valid {
            p := poster.String
            m.PosterURL = &p
        }
        result = append(result, m)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// GetByID retrieves a movie by its ID.  It returns ErrMovieNotFound
// when there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
    const q = `SELECT id, title, description, duration_min, poster_url, is_showing, created_at
               FROM movies WHERE id = ?`
    var m model.Movie
    var desc, poster sql.NullString
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &m.ID, &m.Title, &desc, &m.DurationMin, &poster, &m.IsShowing, &m.CreatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrMovieNotFound
        }
        return nil, err
    }
    if desc.Valid {
        d := desc.String
        m.Description = &d
    }
    if poster.Valid {
        p := poster.String
        m.PosterURL = &p
    }
    return &m, nil
}

package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"

    "github.com/cineplaza/cinema-booking/internal/model"
)

// RoomRepo manages persistence for rooms.  Layouts are stored as a
// JSON column and decoded on read; a NULL layout means the room is
// unconfigured and callers fall back to model.DefaultRoomLayout.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// GetByID retrieves a room by its ID.  It returns ErrRoomNotFound when
// there is no matching row.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
    const q = `SELECT id, cinema_id, name, layout, is_active, created_at, updated_at
               FROM rooms WHERE id = ?`
    var rm model.Room
    var layout sql.NullString
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &rm.ID, &rm.CinemaID, &rm.Name, &layout, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRoomNotFound
        }
        return nil, err
    }
    if layout.Valid && layout.String != "" {
        var l model.RoomLayout
        if err := json.Unmarshal([]byte(layout.String), &l); err != nil {
            return nil, err
        }
        rm.Layout = &l
    }
    return &rm, nil
}

// GetLayout returns the seating layout for a room, falling back to the
// documented default when none is stored.  Out-of-range seats are never
// silently accepted: a room that does not exist still fails with
// ErrRoomNotFound.
func (r *RoomRepo) GetLayout(ctx context.Context, roomID uint64) (*model.RoomLayout, error) {
    rm, err := r.GetByID(ctx, roomID)
    if err != nil {
        return nil, err
    }
    if rm.Layout == nil {
        return model.DefaultRoomLayout(), nil
    }
    return rm.Layout, nil
}

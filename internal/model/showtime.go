package model

import "time"

// Showtime represents a scheduled screening of a movie in a particular
// room.  Seats for a showtime are priced flat from PriceCents; VIP seats
// carry a display tag but no surcharge.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  MovieTitle – title of that movie, joined in on read.
//  RoomID     – room where the screening takes place.
//  StartsAt   – when the screening begins.
//  PriceCents – flat seat price in cents.
//  Status     – current state (SCHEDULED, CANCELLED, FINISHED).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Showtime struct {
    ID         uint64    // showtimes.id
    MovieID    uint64    // showtimes.movie_id
    MovieTitle string    // movies.title (joined)
    RoomID     uint64    // showtimes.room_id
    StartsAt   time.Time // showtimes.starts_at
    PriceCents uint32    // showtimes.price_cents
    Status     string    // showtimes.status
    CreatedAt  time.Time // showtimes.created_at
    UpdatedAt  time.Time // showtimes.updated_at
}

// Movie is the catalogue entry screenings are scheduled for.  Only the
// fields needed by the browse endpoints are modelled here.
type Movie struct {
    ID          uint64    // movies.id
    Title       string    // movies.title
    Description *string   // movies.description (nullable)
    DurationMin uint32    // movies.duration_min
    PosterURL   *string   // movies.poster_url (nullable)
    IsShowing   bool      // movies.is_showing
    CreatedAt   time.Time // movies.created_at
}

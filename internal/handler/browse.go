package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/cineplaza/cinema-booking/internal/repository"
    "github.com/cineplaza/cinema-booking/internal/service"
)

// BrowseHandler serves the public catalogue: movies, schedules and the
// per-showtime seat map.  These routes sit behind the Redis response
// cache; everything here is read-only.
type BrowseHandler struct {
    movies    *repository.MovieRepo
    showtimes *repository.ShowtimeRepo
    engine    *service.ReservationEngine
}

// NewBrowseHandler wires the browse handler.
func NewBrowseHandler(movies *repository.MovieRepo, showtimes *repository.ShowtimeRepo, engine *service.ReservationEngine) *BrowseHandler {
    return &BrowseHandler{movies: movies, showtimes: showtimes, engine: engine}
}

// ListMovies handles GET /v1/movies.
func (h *BrowseHandler) ListMovies(c echo.Context) error {
    movies, err := h.movies.ListShowing(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// ListShowtimes handles GET /v1/movies/:id/showtimes.
func (h *BrowseHandler) ListShowtimes(c echo.Context) error {
    movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || movieID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }
    ctx := c.Request().Context()
    movie, err := h.movies.GetByID(ctx, movieID)
    if err != nil {
        return writeDomainError(c, err)
    }
    showtimes, err := h.showtimes.ListByMovie(ctx, movieID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"movie": movie, "showtimes": showtimes})
}

// GetSeatMap handles GET /v1/showtimes/:id/seats.  The view reflects
// live bookings and unexpired holds only; who holds a seat is never
// exposed.
func (h *BrowseHandler) GetSeatMap(c echo.Context) error {
    showtimeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || showtimeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    view, err := h.engine.SeatMapFor(c.Request().Context(), showtimeID)
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusOK, view)
}

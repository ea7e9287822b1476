// Package router registers the HTTP routes.  Route groups map to the
// three surfaces: public browse (cached), the reservation flow
// (session-scoped and rate limited) and auth.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/cineplaza/cinema-booking/internal/handler"
    "github.com/cineplaza/cinema-booking/internal/middleware"
)

// RegisterRoutes registers routes with no prefix.  Currently only the
// health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.
// cache may be nil when Redis is not configured.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cache echo.MiddlewareFunc) {
    g := e.Group("/v1")
    if cache != nil {
        g.Use(cache)
    }
    g.GET("/movies", b.ListMovies)
    g.GET("/movies/:id/showtimes", b.ListShowtimes)
    g.GET("/showtimes/:id/seats", b.GetSeatMap)
}

// RegisterBooking registers the hold and booking endpoints.  A valid
// JWT is honored but never required; the session resolver then gives
// every request a lock session identity.  Extra middleware (the rate
// limiter) runs after both.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
    g := e.Group("/v1")
    g.Use(middleware.OptionalJWT(jwtSecret))
    g.Use(middleware.SessionID())
    for _, m := range extra {
        if m != nil {
            g.Use(m)
        }
    }
    g.POST("/showtimes/:id/hold", h.HoldSeats)
    g.DELETE("/showtimes/:id/hold", h.ReleaseHold)
    g.POST("/bookings", h.CreateBooking)
    g.GET("/bookings", h.ListBookings)
    g.GET("/bookings/:id", h.GetBooking)
    g.DELETE("/bookings/:id", h.CancelBooking)
}

// RegisterAuth registers the account endpoints under /v1/auth.  Only
// logout-all requires a valid access token; the rest authenticate by
// credentials or refresh token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)
    g.POST("/logout-all", a.LogoutAll, middleware.JWTAuth(jwtSecret))
}

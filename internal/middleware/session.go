package middleware

// session.go resolves the lock session identity for seat holds.  An
// authenticated customer's session is their JWT subject; a guest's is
// the X-Session-ID header.  When neither is present a fresh identifier
// is generated and echoed back so the client can carry it through the
// rest of the selection flow.

import (
    "fmt"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

// HeaderSessionID is the header guests use to carry their hold session.
const HeaderSessionID = "X-Session-ID"

// SessionID returns an Echo middleware that stores the resolved session
// identity under the "session_id" context key and mirrors it on the
// response so newly minted guest sessions are visible to the client.
func SessionID() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            sid := resolveSession(c)
            c.Set("session_id", sid)
            c.Response().Header().Set(HeaderSessionID, sid)
            return next(c)
        }
    }
}

func resolveSession(c echo.Context) string {
    if v := c.Get("user_id"); v != nil {
        // JWTAuth stores the raw claim; numeric subjects arrive as
        // float64 through encoding/json.
        switch s := v.(type) {
        case string:
            if s != "" {
                return "user:" + s
            }
        case float64:
            return fmt.Sprintf("user:%.0f", s)
        }
    }
    if sid := c.Request().Header.Get(HeaderSessionID); sid != "" {
        return sid
    }
    return "guest:" + uuid.NewString()
}

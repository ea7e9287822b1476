package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cineplaza/cinema-booking/internal/utils"
)

func runJWT(t *testing.T, mw echo.MiddlewareFunc, authorization string) (echo.Context, *httptest.ResponseRecorder, bool) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/", nil)
    if authorization != "" {
        req.Header.Set("Authorization", authorization)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    reached := false
    h := mw(func(c echo.Context) error {
        reached = true
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    return c, rec, reached
}

func TestJWTAuthValidToken(t *testing.T) {
    at, err := utils.NewAccessToken("secret", 7, "CUSTOMER", 15)
    require.NoError(t, err)

    c, rec, reached := runJWT(t, JWTAuth("secret"), "Bearer "+at.Token)
    assert.True(t, reached)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, float64(7), c.Get("user_id"))
    assert.Equal(t, "CUSTOMER", c.Get("role"))
}

func TestJWTAuthRejects(t *testing.T) {
    _, rec, reached := runJWT(t, JWTAuth("secret"), "")
    assert.False(t, reached)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    _, rec, reached = runJWT(t, JWTAuth("secret"), "Bearer not-a-token")
    assert.False(t, reached)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    at, err := utils.NewAccessToken("other-secret", 7, "CUSTOMER", 15)
    require.NoError(t, err)
    _, rec, reached = runJWT(t, JWTAuth("secret"), "Bearer "+at.Token)
    assert.False(t, reached)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalJWT(t *testing.T) {
    // No token: pass through as guest.
    c, rec, reached := runJWT(t, OptionalJWT("secret"), "")
    assert.True(t, reached)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Nil(t, c.Get("user_id"))

    // Garbage token: still a guest, never a 401.
    c, _, reached = runJWT(t, OptionalJWT("secret"), "Bearer junk")
    assert.True(t, reached)
    assert.Nil(t, c.Get("user_id"))

    // Valid token: identity is attached.
    at, err := utils.NewAccessToken("secret", 9, "CUSTOMER", 15)
    require.NoError(t, err)
    c, _, reached = runJWT(t, OptionalJWT("secret"), "Bearer "+at.Token)
    assert.True(t, reached)
    assert.Equal(t, float64(9), c.Get("user_id"))
}

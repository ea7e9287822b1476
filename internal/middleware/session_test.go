package middleware

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func runSession(t *testing.T, setup func(c echo.Context, req *http.Request)) (string, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if setup != nil {
        setup(c, req)
    }
    var got string
    h := SessionID()(func(c echo.Context) error {
        got = c.Get("session_id").(string)
        return nil
    })
    require.NoError(t, h(c))
    return got, rec
}

func TestSessionIDFromJWTClaim(t *testing.T) {
    got, _ := runSession(t, func(c echo.Context, req *http.Request) {
        c.Set("user_id", float64(42)) // numeric claims decode as float64
    })
    assert.Equal(t, "user:42", got)
}

func TestSessionIDFromHeader(t *testing.T) {
    got, _ := runSession(t, func(c echo.Context, req *http.Request) {
        req.Header.Set(HeaderSessionID, "guest:abc")
    })
    assert.Equal(t, "guest:abc", got)
}

func TestSessionIDGenerated(t *testing.T) {
    got, rec := runSession(t, nil)
    assert.True(t, strings.HasPrefix(got, "guest:"))
    assert.Equal(t, got, rec.Header().Get(HeaderSessionID), "new guest sessions are echoed to the client")
}

func TestSessionIDPrefersUserOverHeader(t *testing.T) {
    got, _ := runSession(t, func(c echo.Context, req *http.Request) {
        c.Set("user_id", "9")
        req.Header.Set(HeaderSessionID, "guest:abc")
    })
    assert.Equal(t, "user:9", got)
}

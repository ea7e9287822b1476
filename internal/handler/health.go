package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health responds 200 with a small JSON body.  Load balancers probe
// this route.
func Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

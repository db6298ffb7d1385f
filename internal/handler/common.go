// Package handler implements the console's HTTP endpoints. Handlers stay
// thin: they bind input, delegate to the remote API clients, translate the
// client errors into status codes and publish advisory notifications.
// Every remote failure is answered here; nothing escapes to a global
// error state, and nothing is retried.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"citas-admin/internal/remote"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// apiError maps the two client error kinds onto responses: a backend 403
// stays a 403, everything else is the gateway's upstream failing.
func apiError(c echo.Context, err error) error {
	if remote.IsAccessDenied(err) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"citas-admin/internal/middleware"
)

// View answers the console's navigable paths with a view descriptor. The
// interesting part happens before this handler runs: the gate middleware
// has already redirected any path the session may not see, so whatever
// lands here is allowed to render.
func View(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, authed := middleware.CurrentIdentity(c)
		return c.JSON(http.StatusOK, echo.Map{
			"view":          name,
			"authenticated": authed,
		})
	}
}

// Package router wires the console's routes to their handlers and
// middleware. Route layout mirrors the authorization model: public entry
// points are rate-limited, everything under /v1 past the auth group
// requires a session, and user management is root-only.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"citas-admin/internal/handler"
	"citas-admin/internal/middleware"
	"citas-admin/internal/model"
	"citas-admin/internal/notify"
	"citas-admin/internal/session"
)

// Deps carries everything the routes need; main builds it once.
type Deps struct {
	Sessions  *session.Manager
	Auth      *handler.AuthHandler
	Citas     *handler.CitaHandler
	Users     *handler.UserHandler
	Hub       *notify.Hub
	Metrics   *middleware.Metrics
	RateLimit echo.MiddlewareFunc
}

// Register sets up every route on the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.Use(d.Metrics.Middleware())
	e.Use(middleware.Resolve(d.Sessions))

	registerSystem(e)
	registerViews(e)
	registerAuth(e, d)
	registerCitas(e, d)
	registerUsers(e, d)

	// Live notifications; one websocket per browser session.
	e.GET("/v1/events", func(c echo.Context) error {
		d.Metrics.WSConnections.Inc()
		defer d.Metrics.WSConnections.Dec()
		return d.Hub.HandleWS(c)
	}, middleware.RequireAuth())
}

func registerSystem(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// registerViews maps the navigable paths. The gate runs on every
// navigation and decides, from the live session state, whether the
// requested view may render or where to send the user instead.
func registerViews(e *echo.Echo) {
	gate := middleware.Gate()
	e.GET(session.PathHome, handler.View("home"), gate)
	e.GET(session.PathLogin, handler.View("login"), gate)
	e.GET(session.PathRegister, handler.View("new-account"), gate)
	e.GET(session.PathRecover, handler.View("recover-password"), gate)
	e.GET("/content", handler.View("content"), gate)
	e.GET("/users", handler.View("users"), gate)
	e.GET("/configuration", handler.View("configuration"), gate)
}

func registerAuth(e *echo.Echo, d Deps) {
	g := e.Group("/v1/auth", d.RateLimit)
	g.POST("/login", d.Auth.Login)
	g.POST("/register", d.Auth.Register)
	g.POST("/recover", d.Auth.Recover)
	g.POST("/reset-password", d.Auth.ResetPassword)
	g.POST("/logout", d.Auth.Logout)

	e.GET("/v1/me", d.Auth.Me, middleware.RequireAuth())
}

func registerCitas(e *echo.Echo, d Deps) {
	// Public submission: applicants file records without an account.
	e.POST("/v1/forms", d.Citas.Create, d.RateLimit)

	g := e.Group("/v1/forms", middleware.RequireAuth())

	// Reads are open to every role, visitors included.
	g.GET("", d.Citas.List)
	g.GET("/:id", d.Citas.Get)
	g.GET("/:id/history", d.Citas.History)

	// Mutations exclude the read-only visitor role.
	w := g.Group("", middleware.RequireRole(model.RoleRoot, model.RoleStandard))
	w.PUT("/:id", d.Citas.Update)
	w.POST("/:id/assign", d.Citas.Assign)
	w.POST("/:id/release", d.Citas.Release)
	w.DELETE("/:id", d.Citas.Delete)
}

func registerUsers(e *echo.Echo, d Deps) {
	// Self-service profile update: any authenticated operator.
	e.PUT("/v1/profile", d.Users.UpdateOwner, middleware.RequireAuth())

	// Account management is root territory.
	g := e.Group("/v1/users", middleware.RequireAuth(), middleware.RequireRole(model.RoleRoot))
	g.GET("", d.Users.List)
	g.GET("/:id", d.Users.Get)
	g.PUT("/:id", d.Users.Update)
	g.DELETE("/:id", d.Users.Delete)
}

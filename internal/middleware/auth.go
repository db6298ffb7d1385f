// Package middleware provides the console's shared request processing:
// session resolution, view gating, role enforcement, rate limiting and
// request metrics.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"citas-admin/internal/session"
)

// SessionCookie is the cookie carrying the console session identifier.
const SessionCookie = "citas_session"

// Context keys populated by Resolve for downstream handlers.
const (
	KeySession   = "session"
	KeySessionID = "session_id"
	KeyIdentity  = "identity"
	KeyRole      = "role"
)

// Resolve attaches the request's credential store to the Echo and request
// contexts, minting a session cookie on first contact. It does not reject
// anything by itself; pair it with Gate, RequireAuth or RequireRole.
func Resolve(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(SessionCookie); err == nil {
				sid = ck.Value
			}
			if sid == "" {
				minted, err := session.NewSessionID()
				if err != nil {
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session unavailable"})
				}
				sid = minted
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := c.Request().Context()
			st := mgr.Store(ctx, sid)
			c.Set(KeySession, st)
			c.Set(KeySessionID, sid)
			if id, ok := st.Current(); ok {
				c.Set(KeyIdentity, id)
				c.Set(KeyRole, id.Role)
			}
			c.SetRequest(c.Request().WithContext(session.WithStore(ctx, st)))
			return next(c)
		}
	}
}

// Gate applies the view-gating rule to navigations: it consults the
// current authentication state on every request and redirects entry views
// accordingly. Mount it on the view routes only; API routes answer with
// status codes instead.
func Gate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, authed := CurrentIdentity(c)
			if target := session.Resolve(c.Request().URL.Path, authed); target != "" {
				return c.Redirect(http.StatusFound, target)
			}
			return next(c)
		}
	}
}

// RequireAuth rejects API calls that carry no valid console session.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentIdentity(c); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			return next(c)
		}
	}
}

// CurrentIdentity returns the decoded operator identity stored by Resolve.
func CurrentIdentity(c echo.Context) (*session.Identity, bool) {
	id, ok := c.Get(KeyIdentity).(*session.Identity)
	return id, ok && id != nil
}

// CurrentStore returns the request's credential store stored by Resolve.
func CurrentStore(c echo.Context) (*session.Store, bool) {
	st, ok := c.Get(KeySession).(*session.Store)
	return st, ok && st != nil
}

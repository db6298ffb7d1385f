package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"citas-admin/internal/middleware"
	"citas-admin/internal/remote"
	"citas-admin/internal/session"
)

// AuthHandler bundles dependencies for the session endpoints.
type AuthHandler struct {
	Users *remote.UserAPI
}

func NewAuthHandler(users *remote.UserAPI) *AuthHandler {
	return &AuthHandler{Users: users}
}

type loginReq struct {
	Identifier string `json:"identifier"` // email or username; @ decides which
	Password   string `json:"password"`
}

type recoverReq struct {
	Email string `json:"email"`
}

type resetPasswordReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Login exchanges credentials against the user backend, then installs the
// returned bearer token into this browser's session store.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil || req.Identifier == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identifier/password required"})
	}

	ctx := c.Request().Context()
	token, err := h.Users.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		// The backend answers rejected credentials with a non-success
		// status; from the operator's side that is a failed login, not an
		// upstream fault.
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	st, ok := middleware.CurrentStore(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no session"})
	}
	id, err := st.Login(ctx, token)
	if err != nil {
		// The backend handed out a token the console cannot use; treat it
		// as failed authentication rather than a server fault.
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credential"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": identityView(id)})
}

// Register creates an account through the user backend. Public.
func (h *AuthHandler) Register(c echo.Context) error {
	var req remote.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ok, err := h.Users.Create(c.Request().Context(), req)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": ok})
}

// Recover asks the backend to send a password-recovery mail whose link
// points back at this console.
func (h *AuthHandler) Recover(c echo.Context) error {
	var req recoverReq
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	ok, err := h.Users.GetPassword(c.Request().Context(), req.Email)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": ok})
}

// ResetPassword finishes the recovery flow: the single-use token from the
// mail authorizes exactly one password update and is passed straight
// through to the backend instead of the (absent) session credential.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || req.Token == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/password required"})
	}
	id, err := session.DecodeRecoveryIdentity(req.Token, timeNow())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid recovery token"})
	}

	ok, err := h.Users.Update(c.Request().Context(), remote.UpdateUserRequest{
		ID:       id.ID,
		Password: &req.Password,
	}, req.Token)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": ok})
}

// Logout clears the stored token and drops the in-memory identity.
func (h *AuthHandler) Logout(c echo.Context) error {
	if st, ok := middleware.CurrentStore(c); ok {
		st.Logout(c.Request().Context())
	}
	return c.NoContent(http.StatusNoContent)
}

// Me reports the authenticated operator.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": identityView(id)})
}

// identityView is what the console exposes about a session; the raw token
// and its claims stay server-side.
func identityView(id *session.Identity) echo.Map {
	return echo.Map{
		"id":        id.ID,
		"firstname": id.Firstname,
		"lastname":  id.Lastname,
		"username":  id.Username,
		"email":     id.Email,
		"phone":     id.Phone,
		"age":       id.Age,
		"role":      id.Role,
	}
}

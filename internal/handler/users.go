package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"citas-admin/internal/middleware"
	"citas-admin/internal/notify"
	"citas-admin/internal/remote"
)

// UserHandler proxies account management to the user backend. Listing,
// updating and deleting other accounts is root-only (enforced in the
// router); the owner variant lets any operator edit their own profile.
type UserHandler struct {
	Users  *remote.UserAPI
	Bridge *notify.Bridge
}

func NewUserHandler(users *remote.UserAPI, bridge *notify.Bridge) *UserHandler {
	return &UserHandler{Users: users, Bridge: bridge}
}

// List pages through accounts.
func (h *UserHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "pageSize", 10)

	result, err := h.Users.GetAll(c.Request().Context(), page, size, c.QueryParam("searchBy"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Get fetches one account.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	user, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// Update applies a partial update to any account (root only).
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req remote.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ID = id

	ok, err := h.Users.Update(c.Request().Context(), req, "")
	if err != nil {
		return apiError(c, err)
	}
	h.announce(c, fmt.Sprintf("user %d updated", id))
	return c.JSON(http.StatusOK, echo.Map{"success": ok})
}

type updateOwnerReq struct {
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Age            int    `json:"age"`
	Phone          string `json:"phone"`
	Password       string `json:"password"`
	VerifyPassword string `json:"verifyPassword"`
}

// UpdateOwner is the self-service profile update. The backend re-checks
// the verification password; on success the console re-authenticates with
// the updated credentials before answering, so the session's identity
// matches what was just written. The store shows a transient loading state
// while the re-login is in flight.
func (h *UserHandler) UpdateOwner(c echo.Context) error {
	var req updateOwnerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.VerifyPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "verifyPassword required"})
	}

	operator, _ := middleware.CurrentIdentity(c)
	st, _ := middleware.CurrentStore(c)
	ctx := c.Request().Context()

	ok, err := h.Users.UpdateOwner(ctx, remote.UpdateOwnerRequest{
		ID:             operator.ID,
		Firstname:      req.Firstname,
		Lastname:       req.Lastname,
		Username:       req.Username,
		Email:          req.Email,
		Age:            req.Age,
		Phone:          req.Phone,
		Password:       req.Password,
		VerifyPassword: req.VerifyPassword,
		Role:           operator.Role,
	})
	if err != nil {
		return apiError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "update rejected"})
	}

	// The old token still carries the stale identity; exchange the updated
	// credentials for a fresh one. The update has completed before this
	// call starts.
	st.Set(operator, true)
	password := req.Password
	if password == "" {
		password = req.VerifyPassword
	}
	token, err := h.Users.Login(ctx, req.Email, password)
	if err != nil {
		st.Logout(ctx)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "re-authentication failed"})
	}
	id, err := st.Login(ctx, token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credential"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": identityView(id)})
}

// Delete removes an account (root only).
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ok, err := h.Users.Delete(c.Request().Context(), id)
	if err != nil {
		return apiError(c, err)
	}
	h.announce(c, fmt.Sprintf("user %d deleted", id))
	return c.JSON(http.StatusOK, echo.Map{"success": ok})
}

func (h *UserHandler) announce(c echo.Context, message string) {
	_ = h.Bridge.Publish(c.Request().Context(), message)
}
